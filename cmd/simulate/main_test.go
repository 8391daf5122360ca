package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/simulation"
)

func testSnapshot() simulation.Snapshot {
	return simulation.Evaluate(domain.DefaultSimulationInput, nil, time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC))
}

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "env.yaml"},
		{[]string{"-config", "a.yaml"}, "a.yaml"},
		{[]string{"--config", "b.yaml"}, "b.yaml"},
		{[]string{"-mode", "query", "-config=c.yaml"}, "c.yaml"},
		{[]string{"--config=d.yaml"}, "d.yaml"},
		{[]string{"-config"}, "env.yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, configPathFromArgs(tt.args, "env.yaml"), "%v", tt.args)
	}
}

func TestRender(t *testing.T) {
	snap := testSnapshot()

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "text", snap))
	assert.Contains(t, buf.String(), "Simulated Bitcoin L2 TPS")
	assert.Contains(t, buf.String(), "Ethereum path")
	assert.NotContains(t, buf.String(), "Query Tx Count")

	buf.Reset()
	require.NoError(t, render(&buf, "json", snap))
	assert.Contains(t, buf.String(), `"simulatedBitcoinTPS"`)

	buf.Reset()
	require.NoError(t, render(&buf, "csv", snap))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Parameter", "Value"}, records[0])

	buf.Reset()
	require.NoError(t, render(&buf, "markdown", snap))
	assert.Contains(t, buf.String(), "# L2 Data Availability Simulation")

	assert.Error(t, render(&buf, "xml", snap))
}

func TestWriteFile(t *testing.T) {
	snap := testSnapshot()
	path := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, writeFile(path, "markdown", snap))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# L2 Data Availability Simulation")

	assert.Error(t, writeFile(filepath.Join(t.TempDir(), "out.xml"), "xml", snap))
	assert.Error(t, writeFile(filepath.Join(t.TempDir(), "missing", "out.csv"), "csv", snap))
}

func TestWriteCSVExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	snap := testSnapshot()

	path, err := writeCSVExport(dir, snap)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "simulation_results_20250607T080910Z.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Cost in USD,393.22")
}
