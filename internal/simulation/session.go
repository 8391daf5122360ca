package simulation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/idhash"
	"l2-da-lab/internal/metrics"
	"l2-da-lab/internal/observability"
)

// Snapshot is one computation: the input and everything derived from it.
type Snapshot struct {
	ID         string
	Input      domain.SimulationInput
	Metrics    domain.DerivedMetrics
	ComputedAt time.Time
}

// Evaluate computes a snapshot of in.
// Only ComputedAt depends on now; ID and Metrics depend on in alone.
// m may be nil.
func Evaluate(in domain.SimulationInput, m *observability.Metrics, now time.Time) Snapshot {
	start := time.Now()
	derived := metrics.Compute(in)
	if m != nil {
		m.RecordComputation(string(in.Mode()), time.Since(start).Seconds(),
			derived.SimulatedBitcoinTPS, derived.EthereumTPS)
	}

	return Snapshot{
		ID:         idhash.ComputeSnapshotID(in),
		Input:      in,
		Metrics:    derived,
		ComputedAt: now,
	}
}

// Session owns the current SimulationInput of one user and its mode selector.
// Every change rebuilds the input and recomputes; nothing is cached between inputs.
// A Session must be confined to a single goroutine.
type Session struct {
	id       string
	input    domain.SimulationInput
	selector *Selector
	metrics  *observability.Metrics
	logger   logrus.FieldLogger
	now      func() time.Time
}

// SessionOptions contains configuration for creating a Session.
type SessionOptions struct {
	Defaults domain.SimulationInput
	Query    domain.QueryWorkload // initial query workload when Defaults is in manual mode
	Manual   domain.ManualWorkload
	Source   chaindata.BlockRangeSource
	Metrics  *observability.Metrics
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// NewSession creates a session seeded with opts.Defaults.
func NewSession(opts SessionOptions) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	id := uuid.NewString()
	s := &Session{
		id:    id,
		input: opts.Defaults,
		selector: NewSelector(SelectorOptions{
			Manual: opts.Manual,
			Query:  opts.Query,
			Source: opts.Source,
		}),
		metrics: opts.Metrics,
		logger:  logger.WithField("session", id),
		now:     now,
	}
	s.selector.SetWorkload(opts.Defaults.Workload)
	return s
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Mode returns the active mode.
func (s *Session) Mode() domain.Mode {
	return s.selector.Mode()
}

// Input returns the current input with the active workload.
func (s *Session) Input() domain.SimulationInput {
	in := s.input
	in.Workload = s.selector.Workload()
	return in
}

// Apply replaces the whole input record and recomputes.
// The input's workload variant selects the mode; a nil workload keeps the current one.
func (s *Session) Apply(in domain.SimulationInput) Snapshot {
	if s.selector.SetWorkload(in.Workload) {
		s.recordModeSwitch()
	}
	s.input = in
	return s.Snapshot()
}

// SelectMode switches mode and recomputes.
func (s *Session) SelectMode(mode domain.Mode) (Snapshot, error) {
	changed, err := s.selector.Select(mode)
	if err != nil {
		return Snapshot{}, err
	}
	if changed {
		s.recordModeSwitch()
	}
	return s.Snapshot(), nil
}

// QueryBlockRange runs the query state's block range action and recomputes.
func (s *Session) QueryBlockRange(ctx context.Context, start, end uint64) (Snapshot, BlockRangeResult, error) {
	result, err := s.selector.QueryBlockRange(ctx, start, end)
	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case !result.Available:
		status = "unavailable"
	}
	if s.metrics != nil {
		s.metrics.RecordBlockRangeQuery(status)
	}
	if err != nil {
		return Snapshot{}, BlockRangeResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"start":     start,
		"end":       end,
		"available": result.Available,
	}).Debug("block range queried")
	return s.Snapshot(), result, nil
}

// Snapshot computes the current input.
func (s *Session) Snapshot() Snapshot {
	return Evaluate(s.Input(), s.metrics, s.now())
}

func (s *Session) recordModeSwitch() {
	mode := s.selector.Mode()
	s.logger.WithField("mode", mode).Debug("mode switched")
	if s.metrics != nil {
		s.metrics.RecordModeSwitch(string(mode))
	}
}
