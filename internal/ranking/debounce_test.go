package ranking

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(50 * time.Millisecond)
	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 3; i++ {
		i := int32(i)
		d.Arm(func() {
			fired.Add(1)
			last.Store(i)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if got := last.Load(); got != 3 {
		t.Errorf("last armed function was %d, want 3", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	var fired atomic.Int32
	d.Arm(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Cancel, want 0", got)
	}
}

func TestDebouncerFlushRunsImmediately(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(time.Hour)
	var fired atomic.Int32
	d.Arm(func() { fired.Add(1) })
	d.Flush()

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times after Flush, want 1", got)
	}

	// Flush consumed the pending function; a second Flush is a no-op.
	d.Flush()
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times after second Flush, want 1", got)
	}
}

func TestDebouncerFlushWithoutArm(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(time.Hour)
	d.Flush()
	d.Cancel()
}
