package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/reporting"
	"l2-da-lab/internal/simulation"
)

// GET /health
func (s *Server) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/v1/defaults
func (s *Server) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, DefaultsResponse(s.defaults))
}

// POST /api/v1/simulate
func (s *Server) Simulate(c *gin.Context) {
	snap, ok := s.bindSnapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewSnapshotResponse(snap))
}

// POST /api/v1/export/csv
func (s *Server) ExportCSV(c *gin.Context) {
	snap, ok := s.bindSnapshot(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteCSV(&buf, reporting.BuildRows(snap.Input, snap.Metrics)); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	s.metrics.RecordExport("csv")

	c.Header("Content-Disposition", `attachment; filename="`+reporting.ExportFilename(snap.ComputedAt)+`"`)
	c.Header("ETag", `"`+snap.ID+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// POST /api/v1/export/markdown
func (s *Server) ExportMarkdown(c *gin.Context) {
	snap, ok := s.bindSnapshot(c)
	if !ok {
		return
	}
	s.metrics.RecordExport("markdown")

	c.Header("ETag", `"`+snap.ID+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(reporting.RenderMarkdown(s.generator.Generate(snap))))
}

// POST /api/v1/query-range
func (s *Server) QueryRange(c *gin.Context) {
	var req BlockRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	r, err := domain.NewBlockRange(*req.Start, *req.End)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	result := simulation.BlockRangeResult{Range: r}
	stats, err := s.source.BlockRangeStats(c.Request.Context(), r)
	switch {
	case errors.Is(err, chaindata.ErrUnavailable):
		s.metrics.RecordBlockRangeQuery("unavailable")
	case err != nil:
		s.metrics.RecordBlockRangeQuery("error")
		s.logger.WithError(err).WithField("range", r).Warn("block range query failed")
		writeError(c, http.StatusBadGateway, err)
		return
	default:
		s.metrics.RecordBlockRangeQuery("ok")
		result.Available = true
		result.Stats = stats
	}

	c.JSON(http.StatusOK, result)
}

// bindSnapshot decodes the request record and computes it.
// On failure it writes the error response and returns false.
func (s *Server) bindSnapshot(c *gin.Context) (simulation.Snapshot, bool) {
	var req SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return simulation.Snapshot{}, false
	}
	in, err := req.ToInput()
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return simulation.Snapshot{}, false
	}
	return simulation.Evaluate(in, s.metrics, s.now()), true
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
