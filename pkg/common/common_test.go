package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUUIDint64Unique(t *testing.T) {
	seen := make(map[int64]struct{})
	for i := 0; i < 5000; i++ {
		id := UUIDint64()
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestIsoTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 4, 5, 678000000, time.FixedZone("CAT", 2*3600))
	assert.Equal(t, "2024-03-05T08:04:05.678Z", IsoTime(ts))
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  time.Time
		ok    bool
	}{
		{"iso", "2024-03-05T08:04:05.678Z", time.Date(2024, 3, 5, 8, 4, 5, 678000000, time.UTC), true},
		{"date only", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"mysql layout", "2024-03-05 08:04:05", time.Date(2024, 3, 5, 8, 4, 5, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, NA, IfEmptyStr("  ", NA))
	assert.Equal(t, "x", IfEmptyStr("x", NA))
}
