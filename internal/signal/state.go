package signal

import (
	"fmt"
	"sync"
)

// Signal is the operator intent steering a running chaos campaign.
type Signal string

const (
	// Run lets the execution loop proceed normally.
	Run Signal = "RUN"
	// Pause suspends the loop before the next scenario until Run is set.
	Pause Signal = "PAUSE"
	// Stop ends the run at the next checkpoint. Stop is terminal.
	Stop Signal = "STOP"
)

// ParseSignal converts the wire representation into a Signal.
func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case Run, Pause, Stop:
		return Signal(s), nil
	default:
		return "", fmt.Errorf("unknown signal %q", s)
	}
}

// State holds the current signal shared between the HTTP listener (writer)
// and the execution loop (reader). Reads always observe the most recent
// write; once Stop has been recorded all further writes are ignored.
type State struct {
	mu      sync.RWMutex
	current Signal
}

// NewState creates a State with the given initial signal.
func NewState(initial Signal) *State {
	return &State{current: initial}
}

// Get returns the current signal.
func (s *State) Get() Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set records a new signal. Setting the signal already in effect is a no-op;
// any write after Stop is ignored because the run is already ending.
func (s *State) Set(sig Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == Stop {
		return
	}
	s.current = sig
}
