package btree

import (
	"sync"
	"testing"

	"github.com/jsmith-dev/buzzdb/buffer"
)

func newTestTree(t *testing.T) (*Tree, *buffer.Manager) {
	t.Helper()
	dir := t.TempDir()
	mgr, err := buffer.NewManager(dir, 1024, 64)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	tree, err := Open(mgr, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return tree, mgr
}

func TestInsertLookupRoundTrip(t *testing.T) {
	tree, _ := newTestTree(t)

	for i := int64(0); i < 200; i++ {
		if err := tree.Insert(i, i*10); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	for i := int64(0); i < 200; i++ {
		v, found, err := tree.Lookup(i)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", i, err)
		}
		if !found {
			t.Fatalf("Lookup(%d): not found", i)
		}
		if v != i*10 {
			t.Fatalf("Lookup(%d) = %d, want %d", i, v, i*10)
		}
	}

	if _, found, _ := tree.Lookup(9999); found {
		t.Fatalf("Lookup(9999) found, want absent")
	}
}

// S4: enough keys to force the tree past a single leaf (K=42 at a
// 1024-byte page), including an inner-level split.
func TestInsertForcesMultiLevelSplits(t *testing.T) {
	tree, _ := newTestTree(t)

	const n = 5000
	for i := int64(0); i < n; i++ {
		if err := tree.Insert(i*7%100003, i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	for i := int64(0); i < n; i++ {
		key := i * 7 % 100003
		v, found, err := tree.Lookup(key)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", key, err)
		}
		if !found {
			t.Fatalf("Lookup(%d): not found after %d inserts", key, n)
		}
		_ = v
	}
}

func TestInsertOverwritesExistingKey(t *testing.T) {
	tree, _ := newTestTree(t)

	if err := tree.Insert(5, 100); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tree.Insert(5, 200); err != nil {
		t.Fatalf("Insert overwrite: %v", err)
	}

	v, found, err := tree.Lookup(5)
	if err != nil || !found {
		t.Fatalf("Lookup(5) = %v, %v, %v", v, found, err)
	}
	if v != 200 {
		t.Fatalf("Lookup(5) = %d, want 200 (overwritten)", v)
	}
}

func TestEraseRemovesKeyWithoutRebalancing(t *testing.T) {
	tree, _ := newTestTree(t)

	for i := int64(0); i < 100; i++ {
		if err := tree.Insert(i, i); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	if err := tree.Erase(50); err != nil {
		t.Fatalf("Erase(50): %v", err)
	}
	if _, found, _ := tree.Lookup(50); found {
		t.Fatalf("Lookup(50) found after erase")
	}

	// Erasing an absent key is a no-op, not an error.
	if err := tree.Erase(50); err != nil {
		t.Fatalf("Erase(50) second time: %v", err)
	}
	if err := tree.Erase(999999); err != nil {
		t.Fatalf("Erase of never-inserted key: %v", err)
	}

	// Remaining keys are untouched.
	for i := int64(0); i < 100; i++ {
		if i == 50 {
			continue
		}
		if _, found, _ := tree.Lookup(i); !found {
			t.Fatalf("Lookup(%d) missing after unrelated erase", i)
		}
	}
}

// Concurrent readers descending the same multi-level tree must each see
// every key's correct value: Lookup's latch-coupled descent (shared
// latches, parent released as soon as the child is fixed) must allow
// genuine parallelism across goroutines without corrupting results.
func TestConcurrentLookupsAcrossGoroutines(t *testing.T) {
	tree, _ := newTestTree(t)

	const n = 2000
	for i := int64(0); i < n; i++ {
		if err := tree.Insert(i, i*3); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		g := g
		go func() {
			defer wg.Done()
			for i := int64(0); i < n; i++ {
				key := (i + int64(g)*7) % n
				v, found, err := tree.Lookup(key)
				if err != nil {
					t.Errorf("Lookup(%d): %v", key, err)
					return
				}
				if !found || v != key*3 {
					t.Errorf("Lookup(%d) = %d, %v, want %d, true", key, v, found, key*3)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTreeSurvivesManagerReopen(t *testing.T) {
	dir := t.TempDir()
	mgr, err := buffer.NewManager(dir, 1024, 64)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	tree, err := Open(mgr, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := int64(0); i < 500; i++ {
		if err := tree.Insert(i, i*2); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mgr2, err := buffer.NewManager(dir, 1024, 64)
	if err != nil {
		t.Fatalf("NewManager (reopen): %v", err)
	}
	defer mgr2.Close()
	tree2, err := Open(mgr2, 0)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}

	for i := int64(0); i < 500; i++ {
		v, found, err := tree2.Lookup(i)
		if err != nil || !found || v != i*2 {
			t.Fatalf("Lookup(%d) = %d, %v, %v after reopen, want %d, true, nil", i, v, found, err, i*2)
		}
	}
}
