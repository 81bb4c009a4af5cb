package domain

import "time"

// Snapshot is an archived copy of a ryokan record.
type Snapshot struct {
	ID         string
	Slug       string
	Name       string
	Area       string
	Lat, Lng   float64
	RevisedAt  *time.Time
	RawJSON    []byte // decoded record re-encoded as JSON; fields outside Ryokan are not kept
	ExportedAt time.Time
}
