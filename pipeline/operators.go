package pipeline

import "context"

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

// Tap calls fn as a side effect for each value, then passes the value through
// unchanged.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &tapIter[T]{source: p.create(ctx), fn: fn}
		},
	}
}

// TakeThrough yields values until one satisfies stop. That value is yielded
// too, then the pipeline ends without pulling further from the source.
func TakeThrough[T any](p *Pipeline[T], stop func(T) bool) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &takeThroughIter[T]{source: p.create(ctx), stop: stop}
		},
	}
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return result, ok, err
	}
	result, err = it.fn(ctx, val)
	if err != nil {
		return result, false, err
	}
	return result, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	result, ok, err = it.source.Next(ctx)
	if err != nil || !ok {
		return result, ok, err
	}
	if err := it.fn(ctx, result); err != nil {
		return result, false, err
	}
	return result, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type takeThroughIter[T any] struct {
	source Iterator[T]
	stop   func(T) bool
	done   bool
}

func (it *takeThroughIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.done {
		return result, false, nil
	}
	result, ok, err = it.source.Next(ctx)
	if err != nil || !ok {
		return result, ok, err
	}
	if it.stop(result) {
		it.done = true
	}
	return result, true, nil
}

func (it *takeThroughIter[T]) Close() error { return it.source.Close() }
