package status

import (
	"sync"
	"testing"
)

func TestAtomicFloatZeroValue(t *testing.T) {
	var f AtomicFloat
	if got := f.Get(); got != 0 {
		t.Fatalf("zero value Get() = %v, want 0", got)
	}
	f.Set(-12.5)
	if got := f.Get(); got != -12.5 {
		t.Fatalf("Get() = %v, want -12.5", got)
	}
}

func TestAtomicFloatMaxConcurrent(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 1; i <= 64; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			f.Max(v)
		}(float64(i))
	}
	wg.Wait()
	if got := f.Get(); got != 64 {
		t.Fatalf("Max over 1..64 = %v, want 64", got)
	}
	if got := f.Max(3); got != 64 {
		t.Fatalf("Max(3) = %v, want 64 unchanged", got)
	}
}
