package reporting

import (
	"strconv"

	"l2-da-lab/internal/domain"
)

// Parameter names, in export order.
const (
	ParamBlockSizeMB       = "Bitcoin Block Size (MB)"
	ParamUtilizationPct    = "Bitcoin Block Utilization (%)"
	ParamMode              = "Simulation Mode"
	ParamManualTPS         = "Manual TPS"
	ParamUpdateInterval    = "State Update Interval (s)"
	ParamQueryStartBlock   = "Query Start Block"
	ParamQueryEndBlock     = "Query End Block"
	ParamQueryTxCount      = "Query Tx Count"
	ParamQueryInterval     = "Query Time Interval (s)"
	ParamBlobs             = "# Blobs per Update"
	ParamBlobSizeKB        = "Blob Size (KB)"
	ParamSatsPerVByte      = "sats per vByte"
	ParamBitcoinPriceUSD   = "Bitcoin Price (USD)"
	ParamTotalDataBytes    = "Total Data (bytes)"
	ParamTxPerUpdate       = "Transactions per Update"
	ParamAvgDataPerTx      = "Avg Data per Tx (bytes)"
	ParamBitcoinThroughput = "Bitcoin Throughput (bytes/s)"
	ParamSimulatedBTCTPS   = "Simulated Bitcoin L2 TPS"
	ParamEthereumTPS       = "Ethereum L2 TPS"
	ParamCostSats          = "Cost in sats"
	ParamCostBTC           = "Cost in BTC"
	ParamCostUSD           = "Cost in USD"
)

// BuildRows flattens an input and its metrics into export rows.
// Every input field and every derived field appears exactly once, in a fixed order.
func BuildRows(in domain.SimulationInput, m domain.DerivedMetrics) []Row {
	var manualTPS, interval, start, end, txCount, queryInterval string
	switch w := in.Workload.(type) {
	case domain.ManualWorkload:
		manualTPS = formatNumber(w.TPS)
		interval = formatNumber(w.StateUpdateIntervalSec)
	case domain.QueryWorkload:
		txCount = formatNumber(w.TxCount)
		queryInterval = formatNumber(w.TimeIntervalSec)
		if w.Range != nil {
			start = strconv.FormatUint(w.Range.Start, 10)
			end = strconv.FormatUint(w.Range.End, 10)
		}
	}

	return []Row{
		{ParamBlockSizeMB, formatNumber(in.BitcoinBlockSizeMB)},
		{ParamUtilizationPct, formatNumber(in.BitcoinUtilizationPct)},
		{ParamMode, string(in.Mode())},
		{ParamManualTPS, manualTPS},
		{ParamUpdateInterval, interval},
		{ParamQueryStartBlock, start},
		{ParamQueryEndBlock, end},
		{ParamQueryTxCount, txCount},
		{ParamQueryInterval, queryInterval},
		{ParamBlobs, strconv.Itoa(in.NumberOfBlobs)},
		{ParamBlobSizeKB, formatNumber(in.BlobSizeKB)},
		{ParamSatsPerVByte, formatNumber(in.SatsPerVByte)},
		{ParamBitcoinPriceUSD, formatNumber(in.BitcoinPriceUSD)},
		{ParamTotalDataBytes, formatNumber(m.TotalDataBytes)},
		{ParamTxPerUpdate, formatNumber(m.TxPerUpdate)},
		{ParamAvgDataPerTx, formatFixed(m.AvgDataPerTxBytes, 2)},
		{ParamBitcoinThroughput, formatFixed(m.BitcoinThroughputBytesPerSec, 2)},
		{ParamSimulatedBTCTPS, formatFixed(m.SimulatedBitcoinTPS, 2)},
		{ParamEthereumTPS, formatFixed(m.EthereumTPS, 2)},
		{ParamCostSats, formatFixed(m.CostSats, 0)},
		{ParamCostBTC, formatFixed(m.CostBTC, 8)},
		{ParamCostUSD, formatFixed(m.CostUSD, 2)},
	}
}

// BuildChart returns the Ethereum path vs Bitcoin path comparison.
func BuildChart(m domain.DerivedMetrics) Chart {
	return Chart{
		Title:        ChartTitle,
		DatasetLabel: ChartDatasetLabel,
		Series: []Series{
			{Label: EthereumPathLabel, Value: m.EthereumTPS},
			{Label: BitcoinPathLabel, Value: m.SimulatedBitcoinTPS},
		},
	}
}

// formatNumber renders v with the fewest digits that round-trip.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
