package ports

import "context"

// DealVerdict is the solver outcome for one seeded deal.
type DealVerdict struct {
	Seed       uint64 `json:"seed"`
	Verdict    string `json:"verdict"`
	Depth      int    `json:"depth"`
	Expanded   int    `json:"expanded"`
	Strategy   string `json:"strategy"`
	Iterations int    `json:"iterations"`
}

// VerdictPort defines the interface for caching deal verdicts.
type VerdictPort interface {
	// GetVerdict returns the stored verdict for seed. ok is false when none
	// has been stored.
	GetVerdict(ctx context.Context, seed uint64) (v DealVerdict, ok bool, err error)

	// PutVerdict stores v, replacing any earlier verdict for the same seed.
	PutVerdict(ctx context.Context, v DealVerdict) error
}
