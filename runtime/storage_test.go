package runtime

import "testing"

func TestStorageTakeMarksEntryUsed(t *testing.T) {
	s := newStorage[int](0)
	s.Store(1)
	s.Store(2)

	v, ok := s.Take(func(x int) bool { return x == 1 })
	if !ok || v != 1 {
		t.Fatalf("Take = %d, %v; want 1, true", v, ok)
	}
	if _, ok := s.Take(func(x int) bool { return x == 1 }); ok {
		t.Fatal("Take returned an already-taken entry twice")
	}
}

func TestBoundedStorageCompactsBeforePanicking(t *testing.T) {
	s := newStorage[int](2)
	s.Store(1)
	s.Store(2)
	if _, ok := s.Take(func(x int) bool { return x == 1 }); !ok {
		t.Fatal("expected to take 1")
	}
	// One live entry (2) remains; storing a third should compact away the
	// taken slot for 1 and succeed without panicking.
	s.Store(3)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after compaction", s.Len())
	}
}

func TestBoundedStoragePanicsWhenStillFull(t *testing.T) {
	s := newStorage[int](2)
	s.Store(1)
	s.Store(2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected Store to panic when capacity is exceeded with no taken entries to compact")
		}
	}()
	s.Store(3)
}
