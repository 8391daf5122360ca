package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# L2 Data Availability Simulation\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Snapshot: `%s` | Mode: %s\n\n", r.SnapshotID, r.Mode))

	// Comparison
	sb.WriteString(fmt.Sprintf("## %s\n\n", r.Chart.Title))
	sb.WriteString("| Path | TPS |\n")
	sb.WriteString("|------|-----|\n")
	for _, s := range r.Chart.Series {
		sb.WriteString(fmt.Sprintf("| %s | %.2f |\n", s.Label, s.Value))
	}
	sb.WriteString("\n")
	if r.EthereumTPS > 0 {
		sb.WriteString(fmt.Sprintf("Bitcoin path sustains **%.2f%%** of the Ethereum path throughput.\n\n",
			r.BitcoinToEthereumRatio*100))
	} else {
		sb.WriteString("Ethereum path TPS is zero; no ratio available.\n\n")
	}

	// Parameters and metrics
	sb.WriteString("## Parameters and Metrics\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	for _, row := range r.Rows {
		value := row.Value
		if value == "" {
			value = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.Parameter, value))
	}

	return sb.String()
}
