package stats

import (
	"math"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe monotonically increasing count
type Counter struct {
	value int64
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Add adds n to the counter
func (c *Counter) Add(n int64) {
	atomic.AddInt64(&c.value, n)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset resets the counter to 0
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

const noMin = math.MaxInt64

// Timer accumulates durations without locking
type Timer struct {
	count    int64
	errors   int64
	total    int64
	min      int64
	max      int64
	lastSeen int64 // unix nanos
}

// NewTimer creates an empty timer
func NewTimer() *Timer {
	return &Timer{min: noMin}
}

// Record adds one measurement
func (t *Timer) Record(d time.Duration, failed bool) {
	nanos := d.Nanoseconds()

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.total, nanos)
	if failed {
		atomic.AddInt64(&t.errors, 1)
	}
	atomic.StoreInt64(&t.lastSeen, time.Now().UnixNano())

	for {
		cur := atomic.LoadInt64(&t.min)
		if nanos >= cur || atomic.CompareAndSwapInt64(&t.min, cur, nanos) {
			break
		}
	}
	for {
		cur := atomic.LoadInt64(&t.max)
		if nanos <= cur || atomic.CompareAndSwapInt64(&t.max, cur, nanos) {
			break
		}
	}
}

// Stats returns the timer's current figures
func (t *Timer) Stats() OperationStats {
	count := atomic.LoadInt64(&t.count)
	total := atomic.LoadInt64(&t.total)
	s := OperationStats{
		Count:  count,
		Errors: atomic.LoadInt64(&t.errors),
		Total:  time.Duration(total),
		Max:    time.Duration(atomic.LoadInt64(&t.max)),
	}
	if lo := atomic.LoadInt64(&t.min); lo != noMin {
		s.Min = time.Duration(lo)
	}
	if count > 0 {
		s.Avg = time.Duration(total / count)
	}
	if last := atomic.LoadInt64(&t.lastSeen); last != 0 {
		s.Last = time.Unix(0, last)
	}
	return s
}

// Reset clears all measurements
func (t *Timer) Reset() {
	atomic.StoreInt64(&t.count, 0)
	atomic.StoreInt64(&t.errors, 0)
	atomic.StoreInt64(&t.total, 0)
	atomic.StoreInt64(&t.min, noMin)
	atomic.StoreInt64(&t.max, 0)
	atomic.StoreInt64(&t.lastSeen, 0)
}
