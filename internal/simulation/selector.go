package simulation

import (
	"context"
	"errors"
	"fmt"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/domain"
)

// Selector errors
var (
	ErrNotQueryMode = errors.New("block range queries require query mode")
)

// Selector is the manual/query mode state machine.
// It keeps the last value of both workload variants so switching modes never loses input.
// A Selector is not safe for concurrent use.
type Selector struct {
	mode   domain.Mode
	manual domain.ManualWorkload
	query  domain.QueryWorkload
	source chaindata.BlockRangeSource
}

// SelectorOptions contains configuration for creating a Selector.
type SelectorOptions struct {
	Manual domain.ManualWorkload
	Query  domain.QueryWorkload
	Source chaindata.BlockRangeSource // nil behaves like chaindata.Placeholder
}

// NewSelector creates a selector in manual mode.
func NewSelector(opts SelectorOptions) *Selector {
	return &Selector{
		mode:   domain.ModeManual,
		manual: opts.Manual,
		query:  opts.Query,
		source: opts.Source,
	}
}

// Mode returns the current mode.
func (s *Selector) Mode() domain.Mode {
	return s.mode
}

// Select switches to mode. Reports whether the mode changed.
func (s *Selector) Select(mode domain.Mode) (bool, error) {
	if !mode.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	if mode == s.mode {
		return false, nil
	}
	s.mode = mode
	return true, nil
}

// SetWorkload stores w as the latest value of its variant and selects its mode.
// Reports whether the mode changed. A nil workload is ignored.
func (s *Selector) SetWorkload(w domain.Workload) bool {
	switch w := w.(type) {
	case domain.ManualWorkload:
		s.manual = w
	case domain.QueryWorkload:
		s.query = w
	default:
		return false
	}
	changed, _ := s.Select(w.Mode())
	return changed
}

// Workload returns the workload of the active mode.
func (s *Selector) Workload() domain.Workload {
	if s.mode == domain.ModeQuery {
		return s.query
	}
	return s.manual
}

// Manual returns the stored manual workload.
func (s *Selector) Manual() domain.ManualWorkload {
	return s.manual
}

// Query returns the stored query workload.
func (s *Selector) Query() domain.QueryWorkload {
	return s.query
}

// BlockRangeResult describes the outcome of a block range query.
type BlockRangeResult struct {
	Range     domain.BlockRange       `json:"range"`
	Available bool                    `json:"available"`
	Stats     *domain.BlockRangeStats `json:"stats,omitempty"`
}

// QueryBlockRange asks the chain source for [start, end] and records the range.
// Only valid in query mode.
// When the source has no data the query workload counts are left as they are;
// otherwise they are replaced by the reported transaction count and duration.
func (s *Selector) QueryBlockRange(ctx context.Context, start, end uint64) (BlockRangeResult, error) {
	if s.mode != domain.ModeQuery {
		return BlockRangeResult{}, ErrNotQueryMode
	}

	r, err := domain.NewBlockRange(start, end)
	if err != nil {
		return BlockRangeResult{}, err
	}
	result := BlockRangeResult{Range: r}

	if s.source == nil {
		s.query.Range = &r
		return result, nil
	}

	stats, err := s.source.BlockRangeStats(ctx, r)
	if errors.Is(err, chaindata.ErrUnavailable) {
		s.query.Range = &r
		return result, nil
	}
	if err != nil {
		return BlockRangeResult{}, fmt.Errorf("query block range %d-%d: %w", start, end, err)
	}

	s.query = s.query.WithStats(stats)
	result.Available = true
	result.Stats = stats
	return result, nil
}
