package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/otjiningirua/owfarm/internal/domain"
)

func newTestTranslator(t *testing.T) *Translator {
	tr, err := NewTranslator(nil)
	require.NoError(t, err)
	return tr
}

func TestTranslatorToDocument(t *testing.T) {
	tr := newTestTranslator(t)
	created := time.Date(2024, 2, 10, 9, 30, 0, 0, time.UTC)

	doc := tr.ToDocument(domain.Rams, map[string]interface{}{
		"id":         int64(1790000000000000001),
		"name":       []byte("Dorper Ram A"),
		"born_date":  "2023-01-15",
		"price":      "8000.50",
		"weight":     float64(92),
		"created_at": created,
		"updated_at": nil,
		"legacy_col": "dropped",
	})

	assert.Equal(t, Document{
		"id":        "1790000000000000001",
		"name":      "Dorper Ram A",
		"bornDate":  "2023-01-15",
		"price":     8000.5,
		"weight":    92.0,
		"createdAt": "2024-02-10T09:30:00.000Z",
		"updatedAt": nil,
	}, doc)
}

func TestTranslatorJSONAndForeignKeys(t *testing.T) {
	tr := newTestTranslator(t)

	doc := tr.ToDocument(domain.Orders, map[string]interface{}{
		"id":           int64(7),
		"user_id":      int64(42),
		"total_amount": 99.5,
		"items":        []byte(`[{"product":"Dorper Ram A","qty":1}]`),
	})
	assert.Equal(t, "7", doc["id"])
	assert.Equal(t, "42", doc["userId"])
	assert.Equal(t, 99.5, doc["totalAmount"])
	assert.Equal(t, []interface{}{map[string]interface{}{"product": "Dorper Ram A", "qty": 1.0}}, doc["items"])

	logDoc := tr.ToDocument(domain.ActivityLogs, map[string]interface{}{
		"entity_id": "settings",
		"details":   "",
	})
	assert.Equal(t, "settings", logDoc["entityId"])
	assert.Nil(t, logDoc["details"])

	settings := tr.ToDocument(domain.Settings, map[string]interface{}{"id": int64(1), "contact_phone": "+264"})
	assert.Equal(t, Document{"contactPhone": "+264"}, settings)
}

func TestTranslatorToColumns(t *testing.T) {
	tr := newTestTranslator(t)

	t.Run("known fields only", func(t *testing.T) {
		cols, err := tr.ToColumns(domain.Orders, Document{
			"userId":      "42",
			"totalAmount": "12.25",
			"items":       []interface{}{map[string]interface{}{"qty": 2}},
			"createdAt":   "2024-03-01T10:00:00.000Z",
			"unknown":     true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), cols["user_id"])
		assert.Equal(t, 12.25, cols["total_amount"])
		assert.Equal(t, datatypes.JSON(`[{"qty":2}]`), cols["items"])
		created, ok := cols["created_at"].(time.Time)
		require.True(t, ok)
		assert.True(t, created.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
		assert.NotContains(t, cols, "unknown")
		assert.Len(t, cols, 4)
	})

	t.Run("snake case keys and aliases", func(t *testing.T) {
		cols, err := tr.ToColumns(domain.Rams, Document{"born_date": "2022-12-01", "BloodLine": "x"})
		require.NoError(t, err)
		assert.Equal(t, "2022-12-01", cols["born_date"])
		assert.NotContains(t, cols, "blood_line")

		media, err := tr.ToColumns(domain.MediaItems, Document{"type": "video", "url": "/uploads/a.mp4"})
		require.NoError(t, err)
		assert.Equal(t, "video", media["media_type"])
	})

	t.Run("blank numbers become null", func(t *testing.T) {
		cols, err := tr.ToColumns(domain.Orders, Document{"totalAmount": " ", "userId": ""})
		require.NoError(t, err)
		assert.Nil(t, cols["total_amount"])
		assert.Nil(t, cols["user_id"])
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := tr.ToColumns(domain.Orders, Document{"totalAmount": "lots"})
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = tr.ToColumns(domain.StockMovements, Document{"createdAt": "yesterday-ish"})
		assert.ErrorIs(t, err, ErrInvalidField)
	})
}

func TestTranslatorEmbedMedia(t *testing.T) {
	tr := newTestTranslator(t)
	parents := []Document{{"id": "1"}, {"id": "2"}}
	tr.EmbedMedia(parents, []map[string]interface{}{
		{"id": int64(10), "parent_type": "ram", "parent_id": int64(1), "media_type": "image", "url": "/uploads/a.png"},
		{"id": int64(11), "parent_type": "ram", "parent_id": int64(1), "media_type": "video", "url": "/uploads/b.mp4"},
	})

	media := parents[0]["media"].([]interface{})
	require.Len(t, media, 2)
	assert.Equal(t, map[string]interface{}{"id": "10", "type": "image", "url": "/uploads/a.png"}, media[0])
	assert.Equal(t, "11", media[1].(map[string]interface{})["id"])
	assert.Equal(t, []interface{}{}, parents[1]["media"])
}
