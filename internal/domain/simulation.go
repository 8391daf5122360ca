package domain

// BitcoinBlockTimeSec is the fixed Bitcoin block cadence.
const BitcoinBlockTimeSec = 600

// SatsPerBTC converts sats to BTC.
const SatsPerBTC = 100_000_000

// SimulationInput is the complete parameter record for one computation.
// It is rebuilt on every parameter change and never mutated in place.
type SimulationInput struct {
	BitcoinBlockSizeMB    float64
	BitcoinUtilizationPct float64 // share of each block used for DA data, 0..100
	Workload              Workload
	NumberOfBlobs         int
	BlobSizeKB            float64
	SatsPerVByte          float64
	BitcoinPriceUSD       float64
}

// Mode returns the active workload mode, ModeManual when no workload is set.
func (in SimulationInput) Mode() Mode {
	if in.Workload == nil {
		return ModeManual
	}
	return in.Workload.Mode()
}

// DerivedMetrics holds every figure computed from a SimulationInput.
type DerivedMetrics struct {
	TotalDataBytes               float64 `json:"totalDataBytes"`
	TxPerUpdate                  float64 `json:"txPerUpdate"`
	AvgDataPerTxBytes            float64 `json:"avgDataPerTxBytes"`
	BitcoinThroughputBytesPerSec float64 `json:"bitcoinThroughputBytesPerSec"`
	SimulatedBitcoinTPS          float64 `json:"simulatedBitcoinTPS"`
	EthereumTPS                  float64 `json:"ethereumTPS"`
	CostSats                     float64 `json:"costSats"`
	CostBTC                      float64 `json:"costBTC"`
	CostUSD                      float64 `json:"costUSD"`
}

// Default parameter values.
var (
	DefaultManualWorkload = ManualWorkload{
		TPS:                    270,
		StateUpdateIntervalSec: 50,
	}

	DefaultQueryWorkload = QueryWorkload{
		TxCount:         13516,
		TimeIntervalSec: 50,
	}

	DefaultSimulationInput = SimulationInput{
		BitcoinBlockSizeMB:    4,
		BitcoinUtilizationPct: 100,
		Workload:              DefaultManualWorkload,
		NumberOfBlobs:         3,
		BlobSizeKB:            128,
		SatsPerVByte:          1,
		BitcoinPriceUSD:       100000,
	}
)
