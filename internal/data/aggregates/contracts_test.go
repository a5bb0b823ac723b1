package aggregates_test

import (
	"testing"

	"github.com/yungbote/coursebridge-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestAggregateContracts(t *testing.T) {
	ordering := aggregates.NewLessonOrderAggregate(aggregates.LessonOrderAggregateDeps{})
	if c := ordering.Contract(); !c.LocksRows() || c.TxOwnership != domainagg.TxOwnedByAggregate {
		t.Fatalf("lesson order contract: %+v", c)
	}
	ledger := aggregates.NewCompletionAggregate(aggregates.CompletionAggregateDeps{})
	if c := ledger.Contract(); c.LocksRows() || c.TxOwnership != domainagg.TxOwnedByStorage {
		t.Fatalf("completion contract: %+v", c)
	}
}
