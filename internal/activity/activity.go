package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
)

// DefaultLimit is the number of newest entries returned by Recent
const DefaultLimit = 200

// Recorder writes the audit trail. Recording is best-effort: a failed write
// is logged and dropped, the caller never sees it.
type Recorder struct {
	store store.Store
	actor string
	limit int
}

func NewRecorder(s store.Store, limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{store: s, actor: domain.ActorAdmin, limit: limit}
}

// Record appends one entry. details may be any JSON encodable value, nil is
// stored as an empty object.
func (r *Recorder) Record(ctx context.Context, action, entity, entityID string, details interface{}) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Errorf("activity record panic: %v", err)
		}
	}()
	if details == nil {
		details = map[string]interface{}{}
	}
	_, err := r.store.Insert(ctx, domain.ActivityLogs, store.Document{
		"actor":    r.actor,
		"action":   action,
		"entity":   entity,
		"entityId": entityID,
		"details":  details,
	})
	if err != nil {
		zap.L().Warn("activity record failed",
			zap.String("namespace", "activity"),
			zap.String("action", action),
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

// Recent returns the newest entries, at most the configured limit
func (r *Recorder) Recent(ctx context.Context) ([]store.Document, error) {
	return r.store.List(ctx, domain.ActivityLogs, r.limit)
}
