package platform

import (
	"sync"
	"testing"
)

func TestMaintenanceToggle(t *testing.T) {
	state := NewMaintenanceState()
	if state.Enabled() {
		t.Fatal("expected disabled by default")
	}

	prev := state.Set(true, "upgrading")
	if prev {
		t.Fatal("expected previous state false")
	}
	if !state.Enabled() {
		t.Fatal("expected enabled after set")
	}
	if state.Message() != "upgrading" {
		t.Fatalf("unexpected message %q", state.Message())
	}

	prev = state.Set(false, "")
	if !prev {
		t.Fatal("expected previous state true")
	}
	if state.Enabled() {
		t.Fatal("expected disabled after unset")
	}
}

func TestMaintenanceConcurrentReads(t *testing.T) {
	state := NewMaintenanceState()
	state.Set(true, "locked")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = state.Enabled()
			}
		}()
	}
	state.Set(false, "")
	wg.Wait()
}
