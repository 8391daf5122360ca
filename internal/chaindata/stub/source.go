package stub

import (
	"context"
	"sync"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/domain"
)

// Source implements chaindata.BlockRangeSource from preloaded ranges.
type Source struct {
	mu    sync.RWMutex
	stats map[domain.BlockRange]*domain.BlockRangeStats
	calls []domain.BlockRange
	err   error
}

// NewSource creates an empty stub source.
func NewSource() *Source {
	return &Source{
		stats: make(map[domain.BlockRange]*domain.BlockRangeStats),
	}
}

// BlockRangeStats returns preloaded stats, or chaindata.ErrUnavailable for unknown ranges.
func (s *Source) BlockRangeStats(_ context.Context, r domain.BlockRange) (*domain.BlockRangeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r)

	if s.err != nil {
		return nil, s.err
	}

	st, ok := s.stats[r]
	if !ok {
		return nil, chaindata.ErrUnavailable
	}
	cp := *st
	return &cp, nil
}

// AddRange preloads stats for a range.
func (s *Source) AddRange(start, end, txCount uint64, durationSec float64) {
	r := domain.BlockRange{Start: start, End: end}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[r] = &domain.BlockRangeStats{
		Range:       r,
		TxCount:     txCount,
		DurationSec: durationSec,
	}
}

// Calls returns the ranges requested so far.
func (s *Source) Calls() []domain.BlockRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BlockRange, len(s.calls))
	copy(out, s.calls)
	return out
}

// SetErr makes every following call return err. A nil err restores normal behaviour.
func (s *Source) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
