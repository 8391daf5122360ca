// Package chaindata is the boundary to an external chain indexer that reports
// historical L2 transaction counts for block ranges.
package chaindata

import (
	"context"
	"errors"

	"l2-da-lab/internal/domain"
)

// ErrUnavailable is returned when no indexer backs the source.
// Callers treat it as "no data", not as a failure.
var ErrUnavailable = errors.New("block range data unavailable")

// BlockRangeSource reports transaction statistics for a block range.
type BlockRangeSource interface {
	// BlockRangeStats returns the transaction count and elapsed time of the range.
	BlockRangeStats(ctx context.Context, r domain.BlockRange) (*domain.BlockRangeStats, error)
}
