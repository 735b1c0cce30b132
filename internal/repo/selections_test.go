package repo

import (
	"slices"
	"sync"
	"testing"
)

func newCache(t *testing.T, capacity int, onEvict func(string)) *SelectionCache {
	t.Helper()
	c, err := NewSelectionCache(capacity, onEvict)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewSelectionCache_RejectsZeroCapacity(t *testing.T) {
	if _, err := NewSelectionCache(0, nil); err == nil {
		t.Fatal("expected error for zero capacity")
	}
}

func TestInsertLookup(t *testing.T) {
	c := newCache(t, DefaultCapacity, nil)

	a := c.Insert([]string{"a.txt", "dir/b.txt"})
	b := c.Insert([]string{"a.txt", "dir/b.txt"})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", a.ID, b.ID)
	}

	got, ok := c.Lookup(a.ID)
	if !ok || !slices.Equal(got.Files, a.Files) {
		t.Fatalf("lookup %v %v", got, ok)
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Fatal("unknown id found")
	}
}

func TestInsertEmpty(t *testing.T) {
	c := newCache(t, 1, nil)
	sel := c.Insert(nil)
	got, ok := c.Lookup(sel.ID)
	if !ok || got.Files == nil || len(got.Files) != 0 {
		t.Fatalf("empty selection %#v %v", got, ok)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := newCache(t, DefaultCapacity, func(id string) { evicted = append(evicted, id) })

	ids := make([]string, 0, DefaultCapacity+1)
	for i := 0; i <= DefaultCapacity; i++ {
		ids = append(ids, c.Insert([]string{"f"}).ID)
	}

	if c.Len() != DefaultCapacity {
		t.Fatalf("len %d", c.Len())
	}
	if _, ok := c.Lookup(ids[0]); ok {
		t.Fatal("oldest selection still cached")
	}
	for _, id := range ids[1:] {
		if _, ok := c.Lookup(id); !ok {
			t.Fatalf("selection %s evicted", id)
		}
	}
	if !slices.Equal(evicted, ids[:1]) {
		t.Fatalf("evicted %v", evicted)
	}
}

func TestLookupRefreshesRecency(t *testing.T) {
	c := newCache(t, 2, nil)

	a := c.Insert([]string{"a"})
	b := c.Insert([]string{"b"})
	if _, ok := c.Lookup(a.ID); !ok {
		t.Fatal("a missing")
	}
	c.Insert([]string{"c"})

	if _, ok := c.Lookup(a.ID); !ok {
		t.Fatal("recently used selection evicted")
	}
	if _, ok := c.Lookup(b.ID); ok {
		t.Fatal("least recently used selection kept")
	}
}

func TestReturnedSelectionsAreCopies(t *testing.T) {
	c := newCache(t, 4, nil)

	in := []string{"a", "b"}
	sel := c.Insert(in)
	in[0] = "mutated"
	sel.Files[1] = "mutated"

	got, _ := c.Lookup(sel.ID)
	if !slices.Equal(got.Files, []string{"a", "b"}) {
		t.Fatalf("cache shares memory with caller: %v", got.Files)
	}
	got.Files[0] = "x"
	again, _ := c.Lookup(sel.ID)
	if again.Files[0] != "a" {
		t.Fatal("lookup result shares memory with cache")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const capacity = 16
	c := newCache(t, capacity, nil)

	var wg sync.WaitGroup
	for g := 0; g < 32; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sel := c.Insert([]string{"f"})
				c.Lookup(sel.ID)
				if n := c.Len(); n > capacity {
					t.Errorf("len %d exceeds capacity", n)
					return
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() != capacity {
		t.Fatalf("len %d, want %d", c.Len(), capacity)
	}
}
