// Package aggregates defines the write-side contracts of the progress engine.
//
// These contracts avoid persistence/transport details and represent semantic write
// boundaries where invariants (lesson order uniqueness, one completion per user and
// lesson) must be enforced atomically.
package aggregates
