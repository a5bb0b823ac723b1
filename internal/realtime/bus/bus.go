package bus

import (
	"context"

	"github.com/yungbote/coursebridge-backend/internal/realtime"
)

// Bus fans committed domain events out to other processes.
type Bus interface {
	Publish(ctx context.Context, ev realtime.Event) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error
	Close() error
}
