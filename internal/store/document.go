package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/pkg/common"
)

// DocumentStore keeps every collection as one JSON file under dir. Reads
// return the on-disk snapshot, writes rewrite the whole file through a
// temp file and rename. A per collection mutex serializes read-modify-write
// cycles inside this process; other processes writing the same files still
// race and the last writer wins.
type DocumentStore struct {
	dir   string
	locks map[domain.Collection]*sync.Mutex
	now   func() time.Time
}

var _ Store = (*DocumentStore)(nil)

func NewDocumentStore(dir string) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	s := &DocumentStore{
		dir:   dir,
		locks: make(map[domain.Collection]*sync.Mutex),
		now:   time.Now,
	}
	for _, coll := range domain.Collections {
		s.locks[coll] = &sync.Mutex{}
	}
	return s, nil
}

func (s *DocumentStore) Backend() string {
	return BackendDocument
}

func (s *DocumentStore) Dir() string {
	return s.dir
}

func (s *DocumentStore) lock(coll domain.Collection) func() {
	mu := s.locks[coll]
	mu.Lock()
	return mu.Unlock
}

func (s *DocumentStore) file(coll domain.Collection) string {
	return filepath.Join(s.dir, string(coll)+".json")
}

// readCollection treats a missing or unparsable file as an empty collection
func (s *DocumentStore) readCollection(coll domain.Collection) []Document {
	data, err := os.ReadFile(s.file(coll))
	if err != nil {
		return []Document{}
	}
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		zap.L().Warn("unparsable collection file, treating as empty",
			zap.String("namespace", "store"),
			zap.String("collection", string(coll)),
			zap.Error(err))
		return []Document{}
	}
	out := docs[:0]
	for _, d := range docs {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

func (s *DocumentStore) readObject(coll domain.Collection) Document {
	data, err := os.ReadFile(s.file(coll))
	if err != nil {
		return Document{}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return Document{}
	}
	return doc
}

func (s *DocumentStore) writeFile(coll domain.Collection, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", coll)
	}
	tmp, err := os.CreateTemp(s.dir, string(coll)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", coll)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", coll)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", coll)
	}
	if err := os.Rename(tmpName, s.file(coll)); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", coll)
	}
	return nil
}

func indexOf(docs []Document, id string) int {
	for i, d := range docs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

// newestFirst orders by createdAt descending. Records with the same or no
// timestamp keep reverse insertion order.
func newestFirst(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		out = append(out, docs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := common.ParseTime(out[i]["createdAt"])
		tj, _ := common.ParseTime(out[j]["createdAt"])
		return ti.After(tj)
	})
	return out
}

func (s *DocumentStore) List(_ context.Context, coll domain.Collection, limit int) ([]Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	defer s.lock(coll)()
	docs := newestFirst(s.readCollection(coll))
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *DocumentStore) Get(_ context.Context, coll domain.Collection, id string) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	defer s.lock(coll)()
	docs := s.readCollection(coll)
	idx := indexOf(docs, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	return docs[idx], nil
}

func (s *DocumentStore) Insert(_ context.Context, coll domain.Collection, doc Document) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	defer s.lock(coll)()
	docs := s.readCollection(coll)
	rec := prepareInsert(coll, doc, s.now())
	for indexOf(docs, rec.ID()) >= 0 {
		rec["id"] = common.UUIDString()
	}
	docs = append(docs, rec)
	if err := s.writeFile(coll, docs); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch over the stored document
func (s *DocumentStore) Update(_ context.Context, coll domain.Collection, id string, patch Document) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	defer s.lock(coll)()
	docs := s.readCollection(coll)
	idx := indexOf(docs, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	merged := docs[idx].Clone()
	for k, v := range preparePatch(coll, patch, s.now()) {
		merged[k] = v
	}
	docs[idx] = merged
	if err := s.writeFile(coll, docs); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *DocumentStore) Delete(_ context.Context, coll domain.Collection, id string) error {
	if err := checkCollection(coll); err != nil {
		return err
	}
	defer s.lock(coll)()
	docs := s.readCollection(coll)
	next := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID() != id {
			next = append(next, d)
		}
	}
	return s.writeFile(coll, next)
}

func (s *DocumentStore) AppendMedia(_ context.Context, parent domain.Collection, parentID string, media Document) (bool, error) {
	if !parent.HasMedia() {
		return false, errors.Wrapf(ErrUnknownCollection, "%q has no media", parent)
	}
	defer s.lock(parent)()
	docs := s.readCollection(parent)
	idx := indexOf(docs, parentID)
	if idx < 0 {
		return false, nil
	}
	items, _ := docs[idx]["media"].([]interface{})
	items = append(items, map[string]interface{}(prepareMedia(media, s.now())))
	docs[idx]["media"] = items
	if err := s.writeFile(parent, docs); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DocumentStore) Settings(_ context.Context) (Document, error) {
	defer s.lock(domain.Settings)()
	return s.readObject(domain.Settings), nil
}

func (s *DocumentStore) SaveSettings(_ context.Context, patch Document) (Document, error) {
	defer s.lock(domain.Settings)()
	merged := s.readObject(domain.Settings)
	for k, v := range preparePatch(domain.Settings, patch, s.now()) {
		merged[k] = v
	}
	if err := s.writeFile(domain.Settings, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *DocumentStore) Count(_ context.Context, coll domain.Collection) (int64, error) {
	if err := checkCollection(coll); err != nil {
		return 0, err
	}
	defer s.lock(coll)()
	return int64(len(s.readCollection(coll))), nil
}

func (s *DocumentStore) Close() error {
	return nil
}
