//go:build unit

package sweeper_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"stayhub/internal/sweeper"
	"stayhub/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompletion struct {
	mu    sync.Mutex
	count int
}

func (c *countingCompletion) Sweep(context.Context) commands.SweepReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return commands.SweepReport{}
}

func (c *countingCompletion) sweeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestSweeperRunsImmediatelyAndOnTicks(t *testing.T) {
	completion := &countingCompletion{}
	s := sweeper.New(completion, 20*time.Millisecond)

	s.Start()
	defer s.Stop()

	// One pass right away, then more as the ticker fires.
	require.Eventually(t, func() bool { return completion.sweeps() >= 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return completion.sweeps() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweeperStopHaltsTheLoop(t *testing.T) {
	completion := &countingCompletion{}
	s := sweeper.New(completion, 10*time.Millisecond)

	s.Start()
	require.Eventually(t, func() bool { return completion.sweeps() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := completion.sweeps()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, completion.sweeps())
}

func TestSweeperStopWithoutStart(t *testing.T) {
	s := sweeper.New(&countingCompletion{}, time.Minute)
	s.Stop()
}
