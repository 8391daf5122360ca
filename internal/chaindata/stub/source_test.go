package stub

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/domain"
)

func TestSource_PreloadedRange(t *testing.T) {
	s := NewSource()
	s.AddRange(100, 200, 13516, 50)

	stats, err := s.BlockRangeStats(context.Background(), domain.BlockRange{Start: 100, End: 200})
	require.NoError(t, err)
	assert.Equal(t, uint64(13516), stats.TxCount)
	assert.Equal(t, 50.0, stats.DurationSec)

	_, err = s.BlockRangeStats(context.Background(), domain.BlockRange{Start: 1, End: 2})
	assert.ErrorIs(t, err, chaindata.ErrUnavailable)

	assert.Len(t, s.Calls(), 2)
}

func TestSource_Err(t *testing.T) {
	s := NewSource()
	s.AddRange(1, 2, 3, 4)
	s.SetErr(errors.New("indexer down"))

	_, err := s.BlockRangeStats(context.Background(), domain.BlockRange{Start: 1, End: 2})
	assert.EqualError(t, err, "indexer down")

	s.SetErr(nil)
	stats, err := s.BlockRangeStats(context.Background(), domain.BlockRange{Start: 1, End: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.TxCount)
}

func TestSource_ConcurrentSetErr(t *testing.T) {
	s := NewSource()
	s.AddRange(1, 2, 3, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.BlockRangeStats(context.Background(), domain.BlockRange{Start: 1, End: 2})
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SetErr(errors.New("indexer down"))
			} else {
				s.SetErr(nil)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Calls(), 8)
}
