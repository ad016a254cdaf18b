package common

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"

	// IsoTimeLayout matches the millisecond UTC timestamps of the public JSON contract.
	IsoTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func node() *snowflake.Node {
	idNodeOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		idNode = n
	})
	return idNode
}

// UUIDint64 returns a time ordered unique id
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// UUIDString returns UUIDint64 in decimal form
func UUIDString() string {
	return node().Generate().String()
}

// IsoTime formats t as a UTC ISO-8601 timestamp with millisecond precision
func IsoTime(t time.Time) string {
	return t.UTC().Format(IsoTimeLayout)
}

// NowIso is IsoTime(time.Now())
func NowIso() string {
	return IsoTime(time.Now())
}

// ParseTime accepts time.Time values and most textual date layouts
func ParseTime(v interface{}) (time.Time, bool) {
	switch tv := v.(type) {
	case time.Time:
		return tv, !tv.IsZero()
	case *time.Time:
		if tv == nil {
			return time.Time{}, false
		}
		return *tv, !tv.IsZero()
	case string:
		if strings.TrimSpace(tv) == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseIn(tv, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case []byte:
		return ParseTime(string(tv))
	}
	return time.Time{}, false
}

func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}

func FileExists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}
