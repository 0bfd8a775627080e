// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"context"

	"gopkg.microglot.org/wgsl.go/internal/idl"
	"gopkg.microglot.org/wgsl.go/internal/optional"
)

// NewSlice converts a slice of values into an Iterator implementation.
func NewSlice[T any](vs []T) idl.Iterator[T] {
	return &iteratorSlice[T]{slice: vs, offset: -1}
}

type iteratorSlice[T any] struct {
	slice  []T
	offset int
}

func (it *iteratorSlice[T]) Next(ctx context.Context) optional.Optional[T] {
	it.offset = it.offset + 1
	if it.offset >= len(it.slice) {
		return optional.None[T]()
	}
	return optional.Some(it.slice[it.offset])
}

func (it *iteratorSlice[T]) Close(ctx context.Context) error {
	return nil
}

// Collect drains the iterator into a slice and closes it.
func Collect[T any](ctx context.Context, it idl.Iterator[T]) ([]T, error) {
	var values []T
	for v := it.Next(ctx); v.IsPresent(); v = it.Next(ctx) {
		values = append(values, v.Value())
	}
	return values, it.Close(ctx)
}

// NewIteratorFilter wraps an iterator with a filter so that only values that
// pass the filter are returned.
func NewIteratorFilter[T any](it idl.Iterator[T], f idl.Filter[T]) idl.Iterator[T] {
	return &iteratorFilter[T]{
		iter:   it,
		filter: f,
	}
}

type iteratorFilter[T any] struct {
	iter   idl.Iterator[T]
	filter idl.Filter[T]
}

func (it *iteratorFilter[T]) Next(ctx context.Context) optional.Optional[T] {
	for {
		v := it.iter.Next(ctx)
		if !v.IsPresent() {
			return v
		}
		if it.filter.Keep(ctx, v.Value()) {
			return v
		}
	}
}

func (it *iteratorFilter[T]) Close(ctx context.Context) error {
	return it.iter.Close(ctx)
}

// NewLookahead wraps an iterator in a Lookahead implementation to enable
// peeking at the next n values. Lookahead(ctx, 0) is the value most recently
// returned by Next or, before the first call to Next, the value Next will
// return.
func NewLookahead[T any](it idl.Iterator[T], n uint8) idl.Lookahead[T] {
	return &lookahead[T]{
		iter: it,
		ring: make([]optional.Optional[T], int(n)+1),
	}
}

type lookahead[T any] struct {
	iter    idl.Iterator[T]
	ring    []optional.Optional[T]
	head    int
	started bool
	filled  bool
}

func (look *lookahead[T]) fill(ctx context.Context) {
	if look.filled {
		return
	}
	for x := range look.ring {
		look.ring[x] = look.iter.Next(ctx)
	}
	look.filled = true
}

func (look *lookahead[T]) Next(ctx context.Context) optional.Optional[T] {
	look.fill(ctx)
	if !look.started {
		look.started = true
		return look.ring[look.head]
	}
	look.ring[look.head] = look.iter.Next(ctx)
	look.head = (look.head + 1) % len(look.ring)
	return look.ring[look.head]
}

func (look *lookahead[T]) Close(ctx context.Context) error {
	return look.iter.Close(ctx)
}

func (look *lookahead[T]) Lookahead(ctx context.Context, n uint8) optional.Optional[T] {
	look.fill(ctx)
	if int(n) >= len(look.ring) {
		return optional.None[T]()
	}
	return look.ring[(look.head+int(n))%len(look.ring)]
}

// FilterFunc is an adaptor for simple filter functions that makes them
// compatible with the Filter interface. Use like:
//
//	FilterFunc[T](func(ctx context.Context, val T) bool { return true })
//
// Note that this type should never be referenced directly in any signature.
// Always use Filter as an input or output type.
type FilterFunc[T any] func(ctx context.Context, val T) bool

func (f FilterFunc[T]) Keep(ctx context.Context, val T) bool {
	return f(ctx, val)
}
