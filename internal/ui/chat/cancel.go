// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
	"sync/atomic"
)

// =============================================================================
// GENERATIONS
// =============================================================================

// generations are unique across all chat views, so a message from a closed
// view can never match a view mounted later.
var generations atomic.Uint64

func nextGeneration() uint64 {
	return generations.Add(1)
}

// =============================================================================
// FETCH CANCELLATION
// =============================================================================

// cancelManager holds the cancel function of the in-flight reply fetch.
// Fetch commands run on their own goroutine, so access is locked.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// start returns a context for a new fetch, cancelling any previous one.
func (cm *cancelManager) start(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
	}
	cm.cancelFunc = cancel
	return ctx
}

// clear cancels the stored context, if any. Safe to call repeatedly.
func (cm *cancelManager) clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}
