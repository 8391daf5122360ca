package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a block range ends before it starts.
var ErrInvalidRange = errors.New("invalid block range")

// BlockRange is an inclusive range of L2 block numbers.
type BlockRange struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// NewBlockRange validates and builds a range.
func NewBlockRange(start, end uint64) (BlockRange, error) {
	if start > end {
		return BlockRange{}, fmt.Errorf("%w: start %d > end %d", ErrInvalidRange, start, end)
	}
	return BlockRange{Start: start, End: end}, nil
}

// Blocks returns the number of blocks in the range.
func (r BlockRange) Blocks() uint64 {
	return r.End - r.Start + 1
}

// BlockRangeStats is what a chain indexer reports for a block range.
type BlockRangeStats struct {
	Range       BlockRange `json:"range"`
	TxCount     uint64     `json:"txCount"`
	DurationSec float64    `json:"durationSec"`
}
