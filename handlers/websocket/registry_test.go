package websocket

import (
	"errors"
	"sync"
	"testing"

	"pixelchaos/core"
)

func TestAdd_NewClient(t *testing.T) {
	registry := NewRegistry()

	client := registry.Add("alice")
	if client == nil {
		t.Fatal("Add() returned nil client")
	}
	if !client.Connected() {
		t.Error("New client should be connected")
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 registered client, got %d", registry.Count())
	}
}

func TestAdd_SameIDForceClosesPrevious(t *testing.T) {
	registry := NewRegistry()

	first := registry.Add("alice")
	second := registry.Add("alice")

	if first.Connected() {
		t.Error("Replaced client should have been force-closed")
	}
	if !second.Connected() {
		t.Error("Replacement client should be connected")
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 registered client after re-add, got %d", registry.Count())
	}
	if err := first.TrySend([]byte("x")); !errors.Is(err, core.ErrSendFailed) {
		t.Errorf("Send to replaced client: got %v, want ErrSendFailed", err)
	}
}

func TestRemoveClient_StaleEntryKeepsSuccessor(t *testing.T) {
	registry := NewRegistry()

	first := registry.Add("alice")
	second := registry.Add("alice")

	// Teardown of the replaced connection must not evict the entry that
	// now belongs to the reconnect.
	registry.RemoveClient(first)

	current, ok := registry.Get("alice")
	if !ok {
		t.Fatal("Reconnected client was evicted by stale teardown")
	}
	if current != second {
		t.Error("Registry entry no longer points at the reconnected client")
	}
	if !second.Connected() {
		t.Error("Reconnected client should still be connected")
	}

	// Removing the live client still works.
	registry.RemoveClient(second)
	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d entries", registry.Count())
	}
}

func TestRemove_MarksDisconnected(t *testing.T) {
	registry := NewRegistry()
	client := registry.Add("alice")

	registry.Remove("alice")

	if client.Connected() {
		t.Error("Removed client should be disconnected")
	}
	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d entries", registry.Count())
	}
	if _, ok := registry.Get("alice"); ok {
		t.Error("Get() should not find removed client")
	}
}

func TestRemove_AbsentIDIsNoOp(t *testing.T) {
	registry := NewRegistry()
	registry.Add("alice")

	registry.Remove("bob")
	registry.Remove("alice")
	registry.Remove("alice") // second removal of the same id

	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d entries", registry.Count())
	}
}

func TestSnapshot_IsPointInTimeCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Add("alice")
	registry.Add("bob")

	snapshot := registry.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Expected snapshot of 2 clients, got %d", len(snapshot))
	}

	// Mutating the registry must not affect an already-taken snapshot.
	registry.Remove("bob")
	if len(snapshot) != 2 {
		t.Errorf("Snapshot changed after Remove: %d entries", len(snapshot))
	}

	snapshot = registry.Snapshot()
	if len(snapshot) != 1 || snapshot[0].ID() != "alice" {
		t.Errorf("Fresh snapshot should hold only alice, got %d entries", len(snapshot))
	}
}

func TestTrySend_FullQueueFails(t *testing.T) {
	registry := NewRegistry()
	client := registry.Add("alice")

	for i := 0; i < sendBuffer; i++ {
		if err := client.TrySend([]byte("m")); err != nil {
			t.Fatalf("TrySend() failed while filling queue: %v", err)
		}
	}

	if err := client.TrySend([]byte("overflow")); !errors.Is(err, core.ErrSendFailed) {
		t.Errorf("TrySend() on full queue: got %v, want ErrSendFailed", err)
	}
}

func TestConcurrentAddRemoveSnapshot(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				registry.Add(id)
				registry.Snapshot()
				registry.Remove(id)
			}
		}(id)
	}
	wg.Wait()

	if registry.Count() != 0 {
		t.Errorf("Expected empty registry after churn, got %d entries", registry.Count())
	}
}
