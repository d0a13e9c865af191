package signal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	for _, valid := range []string{"RUN", "PAUSE", "STOP"} {
		sig, err := ParseSignal(valid)
		require.NoError(t, err)
		assert.Equal(t, Signal(valid), sig)
	}

	_, err := ParseSignal("run")
	assert.Error(t, err)
	_, err = ParseSignal("HALT")
	assert.Error(t, err)
}

func TestStateSetAndGet(t *testing.T) {
	state := NewState(Run)
	assert.Equal(t, Run, state.Get())

	state.Set(Pause)
	assert.Equal(t, Pause, state.Get())

	state.Set(Run)
	assert.Equal(t, Run, state.Get())
}

func TestStateSetIsIdempotent(t *testing.T) {
	state := NewState(Pause)
	state.Set(Pause)
	state.Set(Pause)
	assert.Equal(t, Pause, state.Get())
}

func TestStateStopIsTerminal(t *testing.T) {
	state := NewState(Run)
	state.Set(Stop)
	assert.Equal(t, Stop, state.Get())

	state.Set(Run)
	assert.Equal(t, Stop, state.Get())
	state.Set(Pause)
	assert.Equal(t, Stop, state.Get())
}

// A reader polling concurrently with writers must always observe the most
// recent write once the writers are done, and the race detector must stay
// quiet throughout.
func TestStateConcurrentAccess(t *testing.T) {
	state := NewState(Run)

	var wg sync.WaitGroup
	stopReaders := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stopReaders:
					return
				default:
					sig := state.Get()
					if sig != Run && sig != Pause {
						t.Errorf("unexpected signal %q during run/pause churn", sig)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			state.Set(Pause)
		} else {
			state.Set(Run)
		}
	}
	close(stopReaders)
	wg.Wait()

	state.Set(Stop)
	assert.Equal(t, Stop, state.Get())
}
