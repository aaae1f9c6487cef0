// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Delay returns the pause before the next word is revealed.
type Delay func() time.Duration

// Default delay bounds for the typing effect.
const (
	DefaultMinDelay = 30 * time.Millisecond
	DefaultMaxDelay = 70 * time.Millisecond
)

// RandomDelay returns delays drawn uniformly from [min, max]. Swapped bounds
// are reordered; equal bounds behave like FixedDelay.
func RandomDelay(min, max time.Duration) Delay {
	if max < min {
		min, max = max, min
	}
	span := int64(max - min)
	return func() time.Duration {
		if span <= 0 {
			return min
		}
		return min + time.Duration(rand.Int64N(span+1))
	}
}

// FixedDelay always returns d. FixedDelay(0) makes playback run as fast as
// the scheduler allows.
func FixedDelay(d time.Duration) Delay {
	return func() time.Duration { return d }
}

// SequenceDelay returns the given delays in order, then repeats the last
// one. With no delays it returns zero.
func SequenceDelay(ds ...time.Duration) Delay {
	var (
		mu sync.Mutex
		i  int
	)
	return func() time.Duration {
		if len(ds) == 0 {
			return 0
		}
		mu.Lock()
		defer mu.Unlock()
		d := ds[i]
		if i < len(ds)-1 {
			i++
		}
		return d
	}
}
