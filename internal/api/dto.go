package api

import (
	"errors"
	"fmt"
	"time"

	"l2-da-lab/internal/config"
	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/reporting"
	"l2-da-lab/internal/simulation"
)

// ErrIncompleteRecord is returned when the active mode's fields are missing.
var ErrIncompleteRecord = errors.New("incomplete simulation record")

// SimulationRequest is the flat parameter record submitted by a form.
// Shared fields are always required; only the active mode's fields are.
type SimulationRequest struct {
	BitcoinBlockSizeMB    *float64 `json:"bitcoinBlockSizeMB" binding:"required,gte=0"`
	BitcoinUtilizationPct *float64 `json:"bitcoinUtilizationPct" binding:"required,gte=0,lte=100"`
	SimulationMode        string   `json:"simulationMode" binding:"required,oneof=manual query"`

	ManualTPS              *float64 `json:"manualTPS,omitempty" binding:"omitempty,gte=0"`
	StateUpdateIntervalSec *float64 `json:"stateUpdateIntervalSec,omitempty" binding:"omitempty,gte=0"`

	QueryTxCount         *float64 `json:"queryTxCount,omitempty" binding:"omitempty,gte=0"`
	QueryTimeIntervalSec *float64 `json:"queryTimeIntervalSec,omitempty" binding:"omitempty,gte=0"`
	QueryStartBlock      *uint64  `json:"queryStartBlock,omitempty"`
	QueryEndBlock        *uint64  `json:"queryEndBlock,omitempty"`

	NumberOfBlobs   *int     `json:"numberOfBlobs" binding:"required,gte=0"`
	BlobSizeKB      *float64 `json:"blobSizeKB" binding:"required,gte=0"`
	SatsPerVByte    *float64 `json:"satsPerVByte" binding:"required,gte=0"`
	BitcoinPriceUSD *float64 `json:"bitcoinPriceUSD" binding:"required,gte=0"`
}

// ToInput converts the request into a complete SimulationInput.
func (r SimulationRequest) ToInput() (domain.SimulationInput, error) {
	mode, err := domain.ParseMode(r.SimulationMode)
	if err != nil {
		return domain.SimulationInput{}, err
	}
	if r.BitcoinBlockSizeMB == nil || r.BitcoinUtilizationPct == nil || r.NumberOfBlobs == nil ||
		r.BlobSizeKB == nil || r.SatsPerVByte == nil || r.BitcoinPriceUSD == nil {
		return domain.SimulationInput{}, fmt.Errorf("%w: missing shared parameter", ErrIncompleteRecord)
	}

	var w domain.Workload
	switch mode {
	case domain.ModeManual:
		if r.ManualTPS == nil || r.StateUpdateIntervalSec == nil {
			return domain.SimulationInput{}, fmt.Errorf("%w: manualTPS and stateUpdateIntervalSec are required in manual mode", ErrIncompleteRecord)
		}
		w = domain.ManualWorkload{TPS: *r.ManualTPS, StateUpdateIntervalSec: *r.StateUpdateIntervalSec}
	case domain.ModeQuery:
		if r.QueryTxCount == nil || r.QueryTimeIntervalSec == nil {
			return domain.SimulationInput{}, fmt.Errorf("%w: queryTxCount and queryTimeIntervalSec are required in query mode", ErrIncompleteRecord)
		}
		q := domain.QueryWorkload{TxCount: *r.QueryTxCount, TimeIntervalSec: *r.QueryTimeIntervalSec}
		if (r.QueryStartBlock == nil) != (r.QueryEndBlock == nil) {
			return domain.SimulationInput{}, fmt.Errorf("%w: queryStartBlock and queryEndBlock must be set together", ErrIncompleteRecord)
		}
		if r.QueryStartBlock != nil {
			br, err := domain.NewBlockRange(*r.QueryStartBlock, *r.QueryEndBlock)
			if err != nil {
				return domain.SimulationInput{}, err
			}
			q.Range = &br
		}
		w = q
	}

	return domain.SimulationInput{
		BitcoinBlockSizeMB:    *r.BitcoinBlockSizeMB,
		BitcoinUtilizationPct: *r.BitcoinUtilizationPct,
		Workload:              w,
		NumberOfBlobs:         *r.NumberOfBlobs,
		BlobSizeKB:            *r.BlobSizeKB,
		SatsPerVByte:          *r.SatsPerVByte,
		BitcoinPriceUSD:       *r.BitcoinPriceUSD,
	}, nil
}

// RequestFromInput renders in as a request record with the active mode's fields set.
func RequestFromInput(in domain.SimulationInput) SimulationRequest {
	r := SimulationRequest{
		BitcoinBlockSizeMB:    ptr(in.BitcoinBlockSizeMB),
		BitcoinUtilizationPct: ptr(in.BitcoinUtilizationPct),
		SimulationMode:        string(in.Mode()),
		NumberOfBlobs:         ptr(in.NumberOfBlobs),
		BlobSizeKB:            ptr(in.BlobSizeKB),
		SatsPerVByte:          ptr(in.SatsPerVByte),
		BitcoinPriceUSD:       ptr(in.BitcoinPriceUSD),
	}
	switch w := in.Workload.(type) {
	case domain.ManualWorkload:
		r.ManualTPS = ptr(w.TPS)
		r.StateUpdateIntervalSec = ptr(w.StateUpdateIntervalSec)
	case domain.QueryWorkload:
		r.QueryTxCount = ptr(w.TxCount)
		r.QueryTimeIntervalSec = ptr(w.TimeIntervalSec)
		if w.Range != nil {
			r.QueryStartBlock = ptr(w.Range.Start)
			r.QueryEndBlock = ptr(w.Range.End)
		}
	}
	return r
}

// DefaultsResponse carries the default values of both modes so a form can prefill them.
func DefaultsResponse(d config.DefaultsConfig) SimulationRequest {
	r := RequestFromInput(d.Input())
	r.ManualTPS = ptr(d.ManualTPS)
	r.StateUpdateIntervalSec = ptr(d.StateUpdateIntervalSec)
	r.QueryTxCount = ptr(d.QueryTxCount)
	r.QueryTimeIntervalSec = ptr(d.QueryTimeIntervalSec)
	return r
}

// SnapshotResponse is the JSON view of a computed snapshot.
type SnapshotResponse struct {
	ID         string                       `json:"id"`
	Mode       string                       `json:"mode"`
	Input      SimulationRequest            `json:"input"`
	Metrics    domain.DerivedMetrics        `json:"metrics"`
	Chart      reporting.Chart              `json:"chart"`
	ComputedAt time.Time                    `json:"computedAt"`
	BlockRange *simulation.BlockRangeResult `json:"blockRange,omitempty"`
}

// NewSnapshotResponse builds the response of snap.
func NewSnapshotResponse(snap simulation.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:         snap.ID,
		Mode:       string(snap.Input.Mode()),
		Input:      RequestFromInput(snap.Input),
		Metrics:    snap.Metrics,
		Chart:      reporting.BuildChart(snap.Metrics),
		ComputedAt: snap.ComputedAt,
	}
}

// BlockRangeRequest asks for the statistics of an inclusive block range.
type BlockRangeRequest struct {
	Start *uint64 `json:"start" binding:"required"`
	End   *uint64 `json:"end" binding:"required"`
}

// ModeRequest selects a simulation mode.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func ptr[T any](v T) *T {
	return &v
}
