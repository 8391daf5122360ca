// Package metrics derives throughput and cost figures from a simulation input.
package metrics

import "l2-da-lab/internal/domain"

// Compute derives all metrics from in.
// It is total: any metric whose denominator is not positive is 0.
// Steps run in dependency order: avgDataPerTxBytes feeds simulatedBitcoinTPS.
func Compute(in domain.SimulationInput) domain.DerivedMetrics {
	totalData := computeTotalDataBytes(in.NumberOfBlobs, in.BlobSizeKB)
	txPerUpdate := computeTxPerUpdate(in.Workload)
	avgDataPerTx := safeDiv(totalData, txPerUpdate)
	throughput := EffectiveBlockBytes(in.BitcoinBlockSizeMB, in.BitcoinUtilizationPct) / domain.BitcoinBlockTimeSec

	costSats := totalData * in.SatsPerVByte
	costBTC := costSats / domain.SatsPerBTC

	return domain.DerivedMetrics{
		TotalDataBytes:               totalData,
		TxPerUpdate:                  txPerUpdate,
		AvgDataPerTxBytes:            avgDataPerTx,
		BitcoinThroughputBytesPerSec: throughput,
		SimulatedBitcoinTPS:          safeDiv(throughput, avgDataPerTx),
		EthereumTPS:                  computeEthereumTPS(in.Workload),
		CostSats:                     costSats,
		CostBTC:                      costBTC,
		CostUSD:                      costBTC * in.BitcoinPriceUSD,
	}
}

// EffectiveBlockBytes returns the bytes of one Bitcoin block available for DA data.
func EffectiveBlockBytes(blockSizeMB, utilizationPct float64) float64 {
	return blockSizeMB * 1024 * 1024 * (utilizationPct / 100)
}

// computeTotalDataBytes returns bytes committed per state update.
func computeTotalDataBytes(blobs int, blobSizeKB float64) float64 {
	return float64(blobs) * blobSizeKB * 1024
}

// computeTxPerUpdate returns L2 transactions covered by one state update.
func computeTxPerUpdate(w domain.Workload) float64 {
	switch w := w.(type) {
	case domain.ManualWorkload:
		return w.TPS * w.StateUpdateIntervalSec
	case domain.QueryWorkload:
		return w.TxCount
	}
	return 0
}

// computeEthereumTPS returns the Ethereum-path TPS.
// Manual mode states it directly; query mode derives it from the batch.
func computeEthereumTPS(w domain.Workload) float64 {
	switch w := w.(type) {
	case domain.ManualWorkload:
		return w.TPS
	case domain.QueryWorkload:
		return safeDiv(w.TxCount, w.TimeIntervalSec)
	}
	return 0
}

// safeDiv returns num/den, or 0 when den <= 0.
func safeDiv(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}
