package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/otjiningirua/owfarm/internal/domain"
)

// RelationalStore reads rows as column maps and hands them to the
// Translator, so the HTTP contract never sees a column name.
type RelationalStore struct {
	db  *gorm.DB
	tr  *Translator
	now func() time.Time
}

var _ Store = (*RelationalStore)(nil)

func NewRelationalStore(db *gorm.DB) (*RelationalStore, error) {
	tr, err := NewTranslator(db.NamingStrategy)
	if err != nil {
		return nil, err
	}
	return &RelationalStore{db: db, tr: tr, now: time.Now}, nil
}

func (s *RelationalStore) Backend() string {
	return BackendRelational
}

func (s *RelationalStore) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table of the schema
func (s *RelationalStore) Migrate() error {
	return errors.Wrap(s.db.Migrator().AutoMigrate(domain.Tables...), "auto migrate")
}

func parseID(id string) (int64, bool) {
	v, err := cast.ToInt64E(strings.TrimSpace(id))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (s *RelationalStore) rows(ctx context.Context, m *tableMeta, limit int, where string, args ...interface{}) ([]map[string]interface{}, error) {
	q := s.db.WithContext(ctx).Table(m.table)
	if where != "" {
		q = q.Where(where, args...)
	}
	if m.has("created_at") {
		q = q.Order("created_at DESC").Order("id DESC")
	} else {
		q = q.Order("id DESC")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []map[string]interface{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "query %s", m.table)
	}
	return rows, nil
}

func (s *RelationalStore) embedMedia(ctx context.Context, coll domain.Collection, docs []Document) error {
	if !coll.HasMedia() || len(docs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		if id, ok := parseID(d.ID()); ok {
			ids = append(ids, id)
		}
	}
	mm, err := s.tr.meta(domain.MediaItems)
	if err != nil {
		return err
	}
	var mediaRows []map[string]interface{}
	err = s.db.WithContext(ctx).Table(mm.table).
		Where("parent_type = ? AND parent_id IN ?", coll.ProductType(), ids).
		Order("id ASC").
		Find(&mediaRows).Error
	if err != nil {
		return errors.Wrap(err, "query media")
	}
	s.tr.EmbedMedia(docs, mediaRows)
	return nil
}

func (s *RelationalStore) List(ctx context.Context, coll domain.Collection, limit int) ([]Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return nil, err
	}
	rows, err := s.rows(ctx, m, limit, "")
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, s.tr.ToDocument(coll, row))
	}
	if err := s.embedMedia(ctx, coll, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *RelationalStore) Get(ctx context.Context, coll domain.Collection, id string) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return nil, err
	}
	key, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	rows, err := s.rows(ctx, m, 1, "id = ?", key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	docs := []Document{s.tr.ToDocument(coll, rows[0])}
	if err := s.embedMedia(ctx, coll, docs); err != nil {
		return nil, err
	}
	return docs[0], nil
}

func (s *RelationalStore) Insert(ctx context.Context, coll domain.Collection, doc Document) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return nil, err
	}
	rec := prepareInsert(coll, doc, s.now())
	cols, err := s.tr.ToColumns(coll, rec)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Table(m.table).Create(cols).Error; err != nil {
		return nil, errors.Wrapf(err, "insert into %s", m.table)
	}
	return s.Get(ctx, coll, rec.ID())
}

// Update writes only the supplied, known columns; everything else keeps its
// stored value.
func (s *RelationalStore) Update(ctx context.Context, coll domain.Collection, id string, patch Document) (Document, error) {
	if err := checkCollection(coll); err != nil {
		return nil, err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return nil, err
	}
	key, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var count int64
	if err := s.db.WithContext(ctx).Table(m.table).Where("id = ?", key).Count(&count).Error; err != nil {
		return nil, errors.Wrapf(err, "query %s", m.table)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	cols, err := s.tr.ToColumns(coll, preparePatch(coll, patch, s.now()))
	if err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		if err := s.db.WithContext(ctx).Table(m.table).Where("id = ?", key).Updates(cols).Error; err != nil {
			return nil, errors.Wrapf(err, "update %s", m.table)
		}
	}
	return s.Get(ctx, coll, id)
}

func (s *RelationalStore) Delete(ctx context.Context, coll domain.Collection, id string) error {
	if err := checkCollection(coll); err != nil {
		return err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return err
	}
	key, ok := parseID(id)
	if !ok {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", key).Delete(m.newModel()).Error; err != nil {
			return errors.Wrapf(err, "delete from %s", m.table)
		}
		if coll.HasMedia() {
			err := tx.Where("parent_type = ? AND parent_id = ?", coll.ProductType(), key).
				Delete(&domain.Media{}).Error
			if err != nil {
				return errors.Wrap(err, "delete media")
			}
		}
		return nil
	})
}

func (s *RelationalStore) AppendMedia(ctx context.Context, parent domain.Collection, parentID string, media Document) (bool, error) {
	if !parent.HasMedia() {
		return false, errors.Wrapf(ErrUnknownCollection, "%q has no media", parent)
	}
	pm, err := s.tr.meta(parent)
	if err != nil {
		return false, err
	}
	key, ok := parseID(parentID)
	if !ok {
		return false, nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Table(pm.table).Where("id = ?", key).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "query %s", pm.table)
	}
	if count == 0 {
		return false, nil
	}
	rec := prepareMedia(media, s.now())
	rec["parentType"] = parent.ProductType()
	rec["parentId"] = key
	cols, err := s.tr.ToColumns(domain.MediaItems, rec)
	if err != nil {
		return false, err
	}
	mm, _ := s.tr.meta(domain.MediaItems)
	if err := s.db.WithContext(ctx).Table(mm.table).Create(cols).Error; err != nil {
		return false, errors.Wrap(err, "insert media")
	}
	return true, nil
}

func (s *RelationalStore) Settings(ctx context.Context) (Document, error) {
	m, err := s.tr.meta(domain.Settings)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	err = s.db.WithContext(ctx).Table(m.table).Where("id = ?", domain.SettingsID).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query settings")
	}
	if len(rows) == 0 {
		return Document{}, nil
	}
	return s.tr.ToDocument(domain.Settings, rows[0]), nil
}

func (s *RelationalStore) SaveSettings(ctx context.Context, patch Document) (Document, error) {
	m, err := s.tr.meta(domain.Settings)
	if err != nil {
		return nil, err
	}
	cols, err := s.tr.ToColumns(domain.Settings, preparePatch(domain.Settings, patch, s.now()))
	if err != nil {
		return nil, err
	}
	delete(cols, "id")
	var count int64
	if err := s.db.WithContext(ctx).Table(m.table).Where("id = ?", domain.SettingsID).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "query settings")
	}
	if count == 0 {
		cols["id"] = domain.SettingsID
		err = s.db.WithContext(ctx).Table(m.table).Create(cols).Error
	} else {
		err = s.db.WithContext(ctx).Table(m.table).Where("id = ?", domain.SettingsID).Updates(cols).Error
	}
	if err != nil {
		return nil, errors.Wrap(err, "save settings")
	}
	return s.Settings(ctx)
}

func (s *RelationalStore) Count(ctx context.Context, coll domain.Collection) (int64, error) {
	if err := checkCollection(coll); err != nil {
		return 0, err
	}
	m, err := s.tr.meta(coll)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.WithContext(ctx).Table(m.table).Count(&count).Error
	return count, errors.Wrapf(err, "count %s", m.table)
}

func (s *RelationalStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
