package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/models"
)

func TestCounterService_NextSequence_StartsAtOne(t *testing.T) {
	env := newTestEnv(t)

	var first, second int64
	err := env.db.Transaction(func(tx *gorm.DB) error {
		var err error
		first, err = env.counters.NextSequence(tx, models.CounterAudits)
		return err
	})
	require.NoError(t, err)
	err = env.db.Transaction(func(tx *gorm.DB) error {
		var err error
		second, err = env.counters.NextSequence(tx, models.CounterAudits)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestCounterService_NextSequence_IndependentCounters(t *testing.T) {
	env := newTestEnv(t)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 3; i++ {
			if _, err := env.counters.NextSequence(tx, models.CounterAudits); err != nil {
				return err
			}
		}
		seq, err := env.counters.NextSequence(tx, models.CounterIncidents)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), seq)
		return nil
	})
	require.NoError(t, err)
}

func TestCounterService_RollbackDoesNotConsume(t *testing.T) {
	env := newTestEnv(t)

	// A rolled back transaction returns its reservation with it.
	_ = env.db.Transaction(func(tx *gorm.DB) error {
		if _, err := env.counters.NextSequence(tx, models.CounterAudits); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})

	var next int64
	err := env.db.Transaction(func(tx *gorm.DB) error {
		var err error
		next, err = env.counters.NextSequence(tx, models.CounterAudits)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestCounterService_ConcurrentReservationsAreUnique(t *testing.T) {
	env := newTestEnv(t)

	const n = 25
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := env.db.Transaction(func(tx *gorm.DB) error {
				seq, err := env.counters.NextSequence(tx, models.CounterIncidents)
				if err != nil {
					return err
				}
				results <- seq
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(results)

	seen := map[int64]bool{}
	for seq := range results {
		assert.False(t, seen[seq], "sequence %d reserved twice", seq)
		seen[seq] = true
	}
	assert.Len(t, seen, n)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "AUD-000001", FormatNumber("AUD", 1))
	assert.Equal(t, "AUD-000123", FormatNumber("AUD", 123))
	assert.Equal(t, "INC-045678", FormatNumber("INC", 45678))
	assert.Equal(t, "AUD-1234567", FormatNumber("AUD", 1234567))
}
