package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/pkg/common"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrInvalidField      = errors.New("invalid field value")
)

const (
	BackendDocument   = "file"
	BackendRelational = "database"
)

// Document is the public JSON shape of a record: camelCase keys, string ids,
// ISO-8601 timestamps and embedded media for products.
type Document map[string]interface{}

// ID returns the id field in string form
func (d Document) ID() string {
	return cast.ToString(d["id"])
}

// Clone returns a shallow copy
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Store is the persistence contract shared by the relational and the
// file backed implementation. List returns newest records first; a limit
// of zero or less means no limit. Delete of an unknown id is not an error.
type Store interface {
	Backend() string
	List(ctx context.Context, coll domain.Collection, limit int) ([]Document, error)
	Get(ctx context.Context, coll domain.Collection, id string) (Document, error)
	Insert(ctx context.Context, coll domain.Collection, doc Document) (Document, error)
	Update(ctx context.Context, coll domain.Collection, id string, patch Document) (Document, error)
	Delete(ctx context.Context, coll domain.Collection, id string) error
	// AppendMedia adds a media record to a product. It reports false without
	// error when the parent does not exist.
	AppendMedia(ctx context.Context, parent domain.Collection, parentID string, media Document) (bool, error)
	Settings(ctx context.Context) (Document, error)
	SaveSettings(ctx context.Context, patch Document) (Document, error)
	Count(ctx context.Context, coll domain.Collection) (int64, error)
	Close() error
}

// checkCollection accepts the top level collections. Settings has its own
// accessors and media is only reachable through its parent product.
func checkCollection(coll domain.Collection) error {
	if coll == domain.Settings || coll == domain.MediaItems || coll.Model() == nil {
		return errors.Wrapf(ErrUnknownCollection, "%q", coll)
	}
	return nil
}

// prepareInsert assigns a fresh id and timestamps. Client supplied ids and
// media lists are discarded.
func prepareInsert(coll domain.Collection, doc Document, now time.Time) Document {
	out := doc.Clone()
	out["id"] = common.UUIDString()
	out["createdAt"] = common.IsoTime(now)
	if coll.Mutable() {
		out["updatedAt"] = common.IsoTime(now)
	}
	if coll.HasMedia() {
		out["media"] = []interface{}{}
	}
	return out
}

// preparePatch strips immutable keys and stamps updatedAt. A null value
// carries no new value, the stored one is kept.
func preparePatch(coll domain.Collection, patch Document, now time.Time) Document {
	out := make(Document, len(patch))
	for k, v := range patch {
		if v != nil {
			out[k] = v
		}
	}
	delete(out, "id")
	delete(out, "createdAt")
	delete(out, "media")
	if coll.Mutable() {
		out["updatedAt"] = common.IsoTime(now)
	}
	return out
}

func prepareMedia(media Document, now time.Time) Document {
	out := media.Clone()
	out["id"] = common.UUIDString()
	out["createdAt"] = common.IsoTime(now)
	return out
}
