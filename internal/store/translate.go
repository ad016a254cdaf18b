package store

import (
	"reflect"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
	"gorm.io/gorm/schema"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var jsonFieldType = reflect.TypeOf(datatypes.JSON{})

// fieldAliases names the public fields that do not follow the camelCase rule
var fieldAliases = map[string]string{
	"media_type": "type",
}

type tableMeta struct {
	coll     domain.Collection
	table    string
	model    reflect.Type
	columns  map[string]*schema.Field
	byField  map[string]string
	byColumn map[string]string
}

func (m *tableMeta) newModel() interface{} {
	return reflect.New(m.model).Interface()
}

func (m *tableMeta) has(column string) bool {
	_, ok := m.columns[column]
	return ok
}

// columnFor resolves a public field name. snake_case keys that already match
// a column are accepted as well.
func (m *tableMeta) columnFor(key string) (string, bool) {
	if col, ok := m.byField[key]; ok {
		return col, true
	}
	col := lo.SnakeCase(key)
	if m.has(col) {
		return col, true
	}
	return "", false
}

// Translator converts between relational rows and documents. Column metadata
// comes from the gorm models, so the mapping follows the schema that
// AutoMigrate creates.
type Translator struct {
	metas map[domain.Collection]*tableMeta
}

func NewTranslator(namer schema.Namer) (*Translator, error) {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	cache := &sync.Map{}
	t := &Translator{metas: make(map[domain.Collection]*tableMeta)}
	for _, coll := range append([]domain.Collection{domain.MediaItems}, domain.Collections...) {
		s, err := schema.Parse(coll.Model(), cache, namer)
		if err != nil {
			return nil, errors.Wrapf(err, "parse model of %s", coll)
		}
		meta := &tableMeta{
			coll:     coll,
			table:    s.Table,
			model:    s.ModelType,
			columns:  make(map[string]*schema.Field),
			byField:  make(map[string]string),
			byColumn: make(map[string]string),
		}
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			name, ok := fieldAliases[f.DBName]
			if !ok {
				name = lo.CamelCase(f.DBName)
			}
			meta.columns[f.DBName] = f
			meta.byField[name] = f.DBName
			meta.byColumn[f.DBName] = name
		}
		t.metas[coll] = meta
	}
	return t, nil
}

func (t *Translator) meta(coll domain.Collection) (*tableMeta, error) {
	m, ok := t.metas[coll]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCollection, "%q", coll)
	}
	return m, nil
}

// ToDocument maps one row, keyed by column name, to its public document.
// Columns unknown to the model are dropped.
func (t *Translator) ToDocument(coll domain.Collection, row map[string]interface{}) Document {
	m, err := t.meta(coll)
	if err != nil {
		return Document{}
	}
	doc := make(Document, len(row))
	for col, raw := range row {
		field, ok := m.columns[col]
		if !ok {
			continue
		}
		doc[m.byColumn[col]] = readValue(col, field, raw)
	}
	if coll == domain.Settings {
		delete(doc, "id")
	}
	return doc
}

// ToColumns maps the fields present in doc to column values. Absent fields
// are simply not part of the result, which is what gives updates their
// partial semantics.
func (t *Translator) ToColumns(coll domain.Collection, doc Document) (map[string]interface{}, error) {
	m, err := t.meta(coll)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]interface{}, len(doc))
	for key, val := range doc {
		col, ok := m.columnFor(key)
		if !ok {
			continue
		}
		v, err := writeValue(col, m.columns[col], val)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidField, "%s: %v", key, err)
		}
		cols[col] = v
	}
	return cols, nil
}

// EmbedMedia groups media rows under their parent documents. Rows must be in
// insertion order; every parent gets a media list, empty when it has none.
func (t *Translator) EmbedMedia(parents []Document, mediaRows []map[string]interface{}) {
	byParent := make(map[string][]interface{})
	for _, row := range mediaRows {
		doc := t.ToDocument(domain.MediaItems, row)
		pid := cast.ToString(doc["parentId"])
		delete(doc, "parentId")
		delete(doc, "parentType")
		byParent[pid] = append(byParent[pid], map[string]interface{}(doc))
	}
	for _, p := range parents {
		items := byParent[p.ID()]
		if items == nil {
			items = []interface{}{}
		}
		p["media"] = items
	}
}

func isIDColumn(column string, field *schema.Field) bool {
	if field.DataType != schema.Int && field.DataType != schema.Uint {
		return false
	}
	return field.PrimaryKey || column == "id" || strings.HasSuffix(column, "_id")
}

func isJSONField(field *schema.Field) bool {
	return field.FieldType == jsonFieldType || strings.EqualFold(string(field.DataType), "json")
}

func stringify(raw interface{}) interface{} {
	if b, ok := raw.([]byte); ok {
		return string(b)
	}
	return raw
}

func readValue(column string, field *schema.Field, raw interface{}) interface{} {
	if raw == nil {
		return nil
	}
	if isIDColumn(column, field) {
		return cast.ToString(stringify(raw))
	}
	if isJSONField(field) {
		var s string
		switch v := raw.(type) {
		case []byte:
			s = string(v)
		case string:
			s = v
		case datatypes.JSON:
			s = string(v)
		default:
			return raw
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		var out interface{}
		if err := json.UnmarshalFromString(s, &out); err != nil {
			return s
		}
		return out
	}
	switch field.DataType {
	case schema.Time:
		if ts, ok := common.ParseTime(raw); ok {
			return common.IsoTime(ts)
		}
		return nil
	case schema.Float:
		return cast.ToFloat64(stringify(raw))
	case schema.Int, schema.Uint:
		return cast.ToInt64(stringify(raw))
	case schema.Bool:
		return cast.ToBool(stringify(raw))
	case schema.String:
		return cast.ToString(stringify(raw))
	}
	return stringify(raw)
}

func isBlank(val interface{}) bool {
	s, ok := val.(string)
	return ok && strings.TrimSpace(s) == ""
}

func writeValue(column string, field *schema.Field, val interface{}) (interface{}, error) {
	if val == nil {
		return nil, nil
	}
	if isIDColumn(column, field) {
		if isBlank(val) {
			return nil, nil
		}
		return cast.ToInt64E(strings.TrimSpace(cast.ToString(val)))
	}
	if isJSONField(field) {
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(b), nil
	}
	switch field.DataType {
	case schema.Time:
		ts, ok := common.ParseTime(val)
		if !ok {
			if isBlank(val) {
				return nil, nil
			}
			return nil, errors.Errorf("unparsable time %v", val)
		}
		return ts, nil
	case schema.Float:
		if isBlank(val) {
			return nil, nil
		}
		return cast.ToFloat64E(val)
	case schema.Int, schema.Uint:
		if isBlank(val) {
			return nil, nil
		}
		return cast.ToInt64E(val)
	case schema.Bool:
		return cast.ToBoolE(val)
	case schema.String:
		switch val.(type) {
		case map[string]interface{}, []interface{}, Document:
			return json.MarshalToString(val)
		}
		return cast.ToStringE(val)
	}
	return val, nil
}
