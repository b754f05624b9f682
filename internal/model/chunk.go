package model

// ChunkStatus is the lifecycle state of an unbonding request.
type ChunkStatus string

const (
	StatusPending   ChunkStatus = "PENDING"
	StatusWithdrawn ChunkStatus = "WITHDRAWN"
)

// UnlockChunk is one in-flight unbonding request. StartEra and
// PrevUnbonded are immutable snapshots taken at creation; Amount shrinks
// under rebonding and Status flips to Withdrawn once the principal is
// actually released.
type UnlockChunk struct {
	ID     string
	Amount float64 // remaining principal
	// StartEra is the era the request was made in.
	StartEra int
	// PrevUnbonded is the era's total unbond before this chunk was added.
	// It caps the start era's contribution during evaluation so that later
	// same-era requests are never blamed on this chunk.
	PrevUnbonded float64
	Status       ChunkStatus
}
