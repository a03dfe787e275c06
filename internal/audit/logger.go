package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Filter narrows an audit log listing. Zero values mean "any".
type Filter struct {
	ActorID *uint
	Action  string
	Entity  string
	From    time.Time
	To      time.Time

	Limit  int
	Offset int
}

// Store persists audit rows.
type Store interface {
	Save(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {

	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		ActorID:   ev.ActorID,
		Action:    ev.Action,
		RequestID: ev.RequestID,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
	}

	return l.store.Save(ctx, &log)
}

func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	return l.store.List(ctx, f)
}
