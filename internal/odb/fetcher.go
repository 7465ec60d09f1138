package odb

import "context"

// Fetcher retrieves the raw recorded history for one simulation run.
type Fetcher interface {
	Fetch(ctx context.Context, job JobRequest) (*RawHistory, error)
}
