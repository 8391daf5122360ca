package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/chaindata/stub"
	"l2-da-lab/internal/domain"
)

func newTestSelector(source chaindata.BlockRangeSource) *Selector {
	return NewSelector(SelectorOptions{
		Manual: domain.DefaultManualWorkload,
		Query:  domain.DefaultQueryWorkload,
		Source: source,
	})
}

func TestSelector_StartsManual(t *testing.T) {
	s := newTestSelector(nil)

	assert.Equal(t, domain.ModeManual, s.Mode())
	assert.Equal(t, domain.DefaultManualWorkload, s.Workload())
}

func TestSelector_Select(t *testing.T) {
	s := newTestSelector(nil)

	changed, err := s.Select(domain.ModeQuery)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, domain.ModeQuery, s.Mode())
	assert.Equal(t, domain.DefaultQueryWorkload, s.Workload())

	changed, err = s.Select(domain.ModeQuery)
	require.NoError(t, err)
	assert.False(t, changed, "selecting the current mode is a no-op")

	_, err = s.Select(domain.Mode("hybrid"))
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
	assert.Equal(t, domain.ModeQuery, s.Mode(), "unknown mode must not change state")
}

func TestSelector_KeepsBothVariants(t *testing.T) {
	s := newTestSelector(nil)

	manual := domain.ManualWorkload{TPS: 100, StateUpdateIntervalSec: 12}
	query := domain.QueryWorkload{TxCount: 5000, TimeIntervalSec: 60}

	assert.False(t, s.SetWorkload(manual))
	assert.True(t, s.SetWorkload(query))
	assert.Equal(t, query, s.Workload())

	_, err := s.Select(domain.ModeManual)
	require.NoError(t, err)
	assert.Equal(t, manual, s.Workload())
	assert.Equal(t, query, s.Query())

	assert.False(t, s.SetWorkload(nil))
	assert.Equal(t, domain.ModeManual, s.Mode())
}

func TestSelector_QueryBlockRange_RequiresQueryMode(t *testing.T) {
	s := newTestSelector(stub.NewSource())

	_, err := s.QueryBlockRange(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNotQueryMode)
}

func TestSelector_QueryBlockRange_InvalidRange(t *testing.T) {
	s := newTestSelector(nil)
	_, err := s.Select(domain.ModeQuery)
	require.NoError(t, err)

	_, err = s.QueryBlockRange(context.Background(), 10, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestSelector_QueryBlockRange_PlaceholderIsNoop(t *testing.T) {
	for name, source := range map[string]chaindata.BlockRangeSource{
		"nil source":  nil,
		"placeholder": chaindata.NewPlaceholder(nil),
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestSelector(source)
			_, err := s.Select(domain.ModeQuery)
			require.NoError(t, err)

			result, err := s.QueryBlockRange(context.Background(), 100, 200)
			require.NoError(t, err)
			assert.False(t, result.Available)
			assert.Nil(t, result.Stats)

			q := s.Query()
			assert.Equal(t, domain.DefaultQueryWorkload.TxCount, q.TxCount)
			assert.Equal(t, domain.DefaultQueryWorkload.TimeIntervalSec, q.TimeIntervalSec)
			require.NotNil(t, q.Range)
			assert.Equal(t, domain.BlockRange{Start: 100, End: 200}, *q.Range)
		})
	}
}

func TestSelector_QueryBlockRange_WithStats(t *testing.T) {
	source := stub.NewSource()
	source.AddRange(100, 200, 27032, 100)

	s := newTestSelector(source)
	_, err := s.Select(domain.ModeQuery)
	require.NoError(t, err)

	result, err := s.QueryBlockRange(context.Background(), 100, 200)
	require.NoError(t, err)
	assert.True(t, result.Available)
	require.NotNil(t, result.Stats)

	q := s.Query()
	assert.Equal(t, 27032.0, q.TxCount)
	assert.Equal(t, 100.0, q.TimeIntervalSec)
	assert.Equal(t, []domain.BlockRange{{Start: 100, End: 200}}, source.Calls())
}

func TestSelector_QueryBlockRange_SourceError(t *testing.T) {
	source := stub.NewSource()
	source.SetErr(errors.New("indexer down"))

	s := newTestSelector(source)
	_, err := s.Select(domain.ModeQuery)
	require.NoError(t, err)

	_, err = s.QueryBlockRange(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexer down")
	assert.Nil(t, s.Query().Range, "failed query must not record the range")
}
