package domain

// Workload is the L2 transaction load feeding a simulation.
// Exactly two variants exist: ManualWorkload and QueryWorkload.
type Workload interface {
	Mode() Mode
	isWorkload()
}

// ManualWorkload states the L2 throughput directly.
type ManualWorkload struct {
	TPS                    float64 // transactions per second on the Ethereum path
	StateUpdateIntervalSec float64 // seconds between state updates
}

// Mode returns ModeManual.
func (ManualWorkload) Mode() Mode { return ModeManual }

func (ManualWorkload) isWorkload() {}

// QueryWorkload describes a historical batch of L2 transactions.
type QueryWorkload struct {
	TxCount         float64     // transactions in the batch
	TimeIntervalSec float64     // elapsed seconds covered by the batch
	Range           *BlockRange // block range the batch was taken from, nil if unset
}

// Mode returns ModeQuery.
func (QueryWorkload) Mode() Mode { return ModeQuery }

func (QueryWorkload) isWorkload() {}

// WithStats returns a copy of w with counts taken from stats.
func (w QueryWorkload) WithStats(stats *BlockRangeStats) QueryWorkload {
	r := stats.Range
	w.Range = &r
	w.TxCount = float64(stats.TxCount)
	w.TimeIntervalSec = stats.DurationSec
	return w
}
