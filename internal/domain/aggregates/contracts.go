package aggregates

// TxOwnership says where a write's atomicity comes from.
type TxOwnership string

const (
	// TxOwnedByAggregate: the aggregate opens one transaction per write and
	// serializes writers with a row lock.
	TxOwnedByAggregate TxOwnership = "aggregate_owned"
	// TxOwnedByStorage: a single statement plus a unique constraint decide the
	// outcome; no explicit lock is taken.
	TxOwnedByStorage TxOwnership = "storage_constraint"
)

// Contract documents how an aggregate keeps its invariant. It is exposed at
// runtime so wiring and tests can assert on it.
type Contract struct {
	Name        string
	TxOwnership TxOwnership
	// SerializedBy names the row or key concurrent writers contend on.
	SerializedBy string
	Invariant    string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) LocksRows() bool {
	return c.TxOwnership == TxOwnedByAggregate
}
