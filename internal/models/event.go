package models

import "time"

// MutationEvent is emitted after a write statement commits.
type MutationEvent struct {
	ID           string       `json:"id"`
	RequestID    string       `json:"request_id,omitempty"`
	Operation    MutationKind `json:"operation"`
	RowsAffected int64        `json:"rows_affected"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// Stats counts statements handled since startup.
type Stats struct {
	Queries      map[QueryKind]int64    `json:"queries"`
	Mutations    map[MutationKind]int64 `json:"mutations"`
	RowsAffected int64                  `json:"rows_affected"`
	Failures     int64                  `json:"failures"`
	PublishFails int64                  `json:"publish_failures"`
} // @name Stats
