package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// codeStoreStub returns a fixed maximum, simulating a store whose committed
// rows lag behind in-flight allocations.
type codeStoreStub struct {
	mu    sync.Mutex
	max   map[string]int
	calls int
}

func (s *codeStoreStub) MaxSequenceForPrefix(prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.max[prefix], nil
}

func (s *codeStoreStub) set(prefix string, max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max == nil {
		s.max = make(map[string]int)
	}
	s.max[prefix] = max
}

func TestDerivePrefix(t *testing.T) {
	tests := []struct {
		name        string
		projectName string
		want        string
	}{
		{"two words", "Metro Sales", "MS"},
		{"single word", "Alpha", "AL"},
		{"single letter", "X", "X"},
		{"three words uses first two", "Metro Sales North", "MS"},
		{"lowercase input", "metro sales", "MS"},
		{"extra whitespace", "  Metro   Sales  ", "MS"},
		{"punctuation-led word", "(Metro) Sales", "MS"},
		{"digit-led word", "7th Avenue", "7A"},
		{"empty name", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePrefix(tt.projectName); got != tt.want {
				t.Errorf("DerivePrefix(%q) = %q, want %q", tt.projectName, got, tt.want)
			}
		})
	}
}

func TestCodeGeneratorGenerate(t *testing.T) {
	store := &codeStoreStub{}
	gen := NewCodeGenerator(NewSequenceAllocator(store))

	code, err := gen.Generate("Metro Sales")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "MS00001" {
		t.Errorf("first code = %q, want MS00001", code)
	}

	// The store still reports max 0; the allocator must remember the
	// sequence it already issued.
	code, err = gen.Generate("Metro Sales")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "MS00002" {
		t.Errorf("second code = %q, want MS00002", code)
	}

	// A different project gets its own sequence.
	code, err = gen.Generate("Alpha")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "AL00001" {
		t.Errorf("other prefix code = %q, want AL00001", code)
	}
}

func TestCodeGeneratorResumesFromStore(t *testing.T) {
	store := &codeStoreStub{}
	store.set("MS", 41)

	gen := NewCodeGenerator(NewSequenceAllocator(store))
	code, err := gen.Generate("Metro Sales")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "MS00042" {
		t.Errorf("code = %q, want MS00042", code)
	}
}

func TestCodeGeneratorEmptyProjectName(t *testing.T) {
	gen := NewCodeGenerator(NewSequenceAllocator(&codeStoreStub{}))
	if _, err := gen.Generate("   "); err == nil {
		t.Fatal("expected error for blank project name")
	}
}

func TestSequenceAllocatorConcurrent(t *testing.T) {
	store := &codeStoreStub{}
	alloc := NewSequenceAllocator(store)

	const workers = 50
	results := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := alloc.Next("MS")
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for seq := range results {
		if seen[seq] {
			t.Errorf("sequence %d issued twice", seq)
		}
		seen[seq] = true
	}
	if len(seen) != workers {
		t.Errorf("got %d distinct sequences, want %d", len(seen), workers)
	}
}

func TestScanAllocatorRereadsStore(t *testing.T) {
	store := &codeStoreStub{}
	store.set("MS", 7)

	alloc := NewScanAllocator(store)
	seq, err := alloc.Next("MS")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if seq != 8 {
		t.Errorf("seq = %d, want 8", seq)
	}

	// Without a committed row the naive variant hands out the same number
	// again. This is the collision the locking allocator exists to prevent.
	seq, err = alloc.Next("MS")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if seq != 8 {
		t.Errorf("repeat seq = %d, want 8", seq)
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	store := &codeStoreStub{}
	store.set("MS", 99998)

	gen := NewCodeGenerator(NewSequenceAllocator(store))
	code, err := gen.Generate("Metro Sales")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "MS99999" {
		t.Errorf("code = %q, want MS99999", code)
	}

	// Sequences past five digits widen rather than wrap.
	code, err = gen.Generate("Metro Sales")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(code, "MS") || code != fmt.Sprintf("MS%05d", 100000) {
		t.Errorf("code = %q, want MS100000", code)
	}
}
