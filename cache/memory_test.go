package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryStore_GetSet(t *testing.T) {
	s := NewInMemoryStore()

	err := s.Set("en_common", map[string]string{"hello": "Hello"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := s.Get("en_common")
	if !ok {
		t.Fatal("Get should return true for stored collection")
	}
	if got["hello"] != "Hello" {
		t.Errorf("Get returned %v, want hello=Hello", got)
	}

	got, ok = s.Get("de_common")
	if ok {
		t.Error("Get should return false for missing collection")
	}
	if got != nil {
		t.Errorf("Get should return nil for missing collection, got %v", got)
	}
}

func TestInMemoryStore_EmptyMappingIsPresent(t *testing.T) {
	s := NewInMemoryStore()

	s.Set("en_empty", nil)

	got, ok := s.Get("en_empty")
	if !ok {
		t.Fatal("an empty mapping is still a populated entry")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil mapping, got %v", got)
	}
}

func TestInMemoryStore_ReplaceWholesale(t *testing.T) {
	s := NewInMemoryStore()

	s.Set("en_common", map[string]string{"a": "A", "b": "B"})
	s.Set("en_common", map[string]string{"c": "C"})

	got, _ := s.Get("en_common")
	if len(got) != 1 || got["c"] != "C" {
		t.Errorf("Set should replace the mapping, got %v", got)
	}
}

func TestInMemoryStore_Collections(t *testing.T) {
	s := NewInMemoryStore()

	s.Set("fr_common", nil)
	s.Set("de_common", nil)
	s.Set("en_errors", nil)

	got := s.Collections()
	want := []string{"de_common", "en_errors", "fr_common"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Collections() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestInMemoryStore_Clear(t *testing.T) {
	s := NewInMemoryStore()

	s.Set("en_common", map[string]string{"a": "A"})
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Cleared store should have length 0, got %d", s.Len())
	}
	if _, ok := s.Get("en_common"); ok {
		t.Error("Cleared store should not contain any collections")
	}
}

func TestInMemoryStore_EntriesIsACopy(t *testing.T) {
	s := NewInMemoryStore()
	s.Set("en_common", map[string]string{"a": "A"})

	entries := s.Entries()
	entries["en_common"]["a"] = "changed"

	got, _ := s.Get("en_common")
	if got["a"] != "A" {
		t.Errorf("mutating Entries() must not affect the store, got %q", got["a"])
	}
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("lang%d_common", i%10)
			s.Set(name, map[string]string{"k": fmt.Sprint(i)})
		}(i)
		go func(i int) {
			defer wg.Done()
			s.Get(fmt.Sprintf("lang%d_common", i%10))
			s.Collections()
		}(i)
	}

	wg.Wait()
	// If we get here without a race condition, the test passes
}

// Verify InMemoryStore implements Store
var _ Store = (*InMemoryStore)(nil)
