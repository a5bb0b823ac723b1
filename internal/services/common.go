package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/coursebridge-backend/internal/data/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/realtime"
	"github.com/yungbote/coursebridge-backend/internal/realtime/bus"
)

const publishTimeout = 3 * time.Second

// inTx runs fn inside a transaction unless dbc already carries one.
func inTx(dbc dbctx.Context, db *gorm.DB, fn func(inner dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	return db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}

// read wraps a plain read so storage failures surface with an error code.
func read(op string, err error) error {
	if err == nil {
		return nil
	}
	return dataagg.MapError(op, err)
}

// EventPublisher hands committed events to the bus. Publishing is best effort:
// the write already committed, so failures are logged and counted only.
type EventPublisher struct {
	bus     bus.Bus
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewEventPublisher(b bus.Bus, baseLog *logger.Logger, metrics *observability.Metrics) *EventPublisher {
	return &EventPublisher{
		bus:     b,
		log:     baseLog.With("service", "EventPublisher"),
		metrics: metrics,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, ev realtime.Event) {
	if p == nil || p.bus == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := p.bus.Publish(pubCtx, ev)
	p.metrics.IncEventPublished(string(ev.Type), err == nil)
	if err != nil {
		p.log.Warn("event publish failed", "event_type", ev.Type, "course_id", ev.CourseID, "error", err)
	}
}
