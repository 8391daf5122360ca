package reporting

import "time"

// Report is the export view of one simulation snapshot.
type Report struct {
	// Metadata
	SnapshotID  string
	GeneratedAt time.Time
	Mode        string

	// Parameters and derived metrics, in export order
	Rows []Row

	// Ethereum path vs Bitcoin path
	Chart Chart

	// SimulatedBitcoinTPS / EthereumTPS, 0 when EthereumTPS <= 0
	EthereumTPS            float64
	BitcoinToEthereumRatio float64
}

// Row is one (parameter, value) pair of the tabular export.
// Value is empty for parameters that do not apply to the active mode.
type Row struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// Chart is a two-series TPS comparison.
type Chart struct {
	Title        string   `json:"title"`
	DatasetLabel string   `json:"datasetLabel"`
	Series       []Series `json:"series"`
}

// Series is one labelled bar of the comparison chart.
type Series struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart labels
const (
	ChartTitle        = "L2 TPS Comparison"
	ChartDatasetLabel = "Transactions per Second"
	EthereumPathLabel = "Ethereum path"
	BitcoinPathLabel  = "Bitcoin path"
)
