package idhash

import (
	"crypto/sha256"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"l2-da-lab/internal/domain"
)

// ComputeSnapshotID computes a deterministic ID for a simulation input using SHA256.
// Formula: SHA256(mode|block_size_mb|utilization_pct|workload fields|blobs|blob_size_kb|sats_per_vbyte|btc_price_usd)
// Workload fields are tps|interval for manual and tx_count|interval|range_start|range_end for query.
// Returns base58-encoded hash.
func ComputeSnapshotID(in domain.SimulationInput) string {
	parts := []string{
		string(in.Mode()),
		formatFloat(in.BitcoinBlockSizeMB),
		formatFloat(in.BitcoinUtilizationPct),
	}

	switch w := in.Workload.(type) {
	case domain.ManualWorkload:
		parts = append(parts, formatFloat(w.TPS), formatFloat(w.StateUpdateIntervalSec))
	case domain.QueryWorkload:
		start, end := "", ""
		if w.Range != nil {
			start = strconv.FormatUint(w.Range.Start, 10)
			end = strconv.FormatUint(w.Range.End, 10)
		}
		parts = append(parts, formatFloat(w.TxCount), formatFloat(w.TimeIntervalSec), start, end)
	}

	parts = append(parts,
		strconv.Itoa(in.NumberOfBlobs),
		formatFloat(in.BlobSizeKB),
		formatFloat(in.SatsPerVByte),
		formatFloat(in.BitcoinPriceUSD),
	)

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return base58.Encode(hash[:])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
