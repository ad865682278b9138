package domain

import "time"

// Subscription binds one block reference and one filter to a live connection.
// It exists only while its dispatcher runs.
type Subscription struct {
	ID           string
	ConnectionID string
	Identity     string
	Block        BlockRef
	Filter       Filter
	CreatedAt    time.Time
}

// DiscoveryState records the outcome of the most recent endpoint discovery run.
type DiscoveryState struct {
	RefreshedAt   time.Time
	EndpointCount int
	Candidates    int
	Err           string
}
