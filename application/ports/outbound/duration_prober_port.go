package outbound

import "context"

// DurationProberPort measures the real duration of a media file. Measured
// durations, not requested ones, drive stitch and sync reconciliation.
type DurationProberPort interface {
	Probe(ctx context.Context, path string) (float64, error)
}
