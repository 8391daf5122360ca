package chaindata

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"l2-da-lab/internal/domain"
)

// Placeholder is the default BlockRangeSource. It fetches nothing.
type Placeholder struct {
	logger logrus.FieldLogger
}

// NewPlaceholder creates a placeholder source. A nil logger discards output.
func NewPlaceholder(logger logrus.FieldLogger) *Placeholder {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Placeholder{logger: logger}
}

// BlockRangeStats logs the request and returns ErrUnavailable.
func (p *Placeholder) BlockRangeStats(ctx context.Context, r domain.BlockRange) (*domain.BlockRangeStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{
		"start": r.Start,
		"end":   r.End,
	}).Info("block range query requested, no indexer configured")
	return nil, ErrUnavailable
}
