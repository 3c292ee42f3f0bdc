package backoff

import (
	"math"
	"time"
)

// growthRate is the per-attempt multiplier for the exponential policy
const growthRate = 1.2

// Policy computes the delay before the next try given the 0-based index of
// the attempt that just failed
type Policy interface {
	Delay(attempt int) time.Duration
}

// Fixed waits the same base delay before every retry.
// Used by the strict profile.
type Fixed struct {
	Base time.Duration
}

func (f Fixed) Delay(int) time.Duration {
	return f.Base
}

// Exponential grows the delay by a factor of 1.2 per attempt, truncating the
// millisecond result toward zero. Used by the safe profile.
//
// For a 100ms base the progression is 100, 120, 144, 172.
type Exponential struct {
	Base time.Duration
}

func (e Exponential) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	ms := float64(e.Base.Milliseconds()) * math.Pow(growthRate, float64(attempt))
	return time.Duration(math.Floor(ms)) * time.Millisecond
}
