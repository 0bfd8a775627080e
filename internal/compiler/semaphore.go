// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import "context"

// semaphore bounds the number of files being read or parsed at once.
type semaphore struct {
	x chan bool
}

func newSemaphore(v int) *semaphore {
	if v < 1 {
		v = 1
	}
	return &semaphore{
		x: make(chan bool, v),
	}
}

// Acquire blocks until a slot is free or the context ends.
func (self *semaphore) Acquire(ctx context.Context) error {
	select {
	case self.x <- false:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (self *semaphore) Release() {
	<-self.x
}
