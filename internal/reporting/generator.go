package reporting

import (
	"time"

	"l2-da-lab/internal/simulation"
)

// Generator produces reports from simulation snapshots.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the report of one snapshot.
func (g *Generator) Generate(snap simulation.Snapshot) *Report {
	m := snap.Metrics

	ratio := 0.0
	if m.EthereumTPS > 0 {
		ratio = m.SimulatedBitcoinTPS / m.EthereumTPS
	}

	return &Report{
		SnapshotID:             snap.ID,
		GeneratedAt:            g.now(),
		Mode:                   string(snap.Input.Mode()),
		Rows:                   BuildRows(snap.Input, m),
		Chart:                  BuildChart(m),
		EthereumTPS:            m.EthereumTPS,
		BitcoinToEthereumRatio: ratio,
	}
}
