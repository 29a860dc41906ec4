package async

import (
	"context"
	"errors"
	"fmt"
)

// Future is a handle to a result that is produced asynchronously.
// It resolves exactly once, either with a value or with an error.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn in a new goroutine and returns a Future for its result.
// A panic inside fn rejects the future instead of crashing the process.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("panic: %v", r)
			}
		}()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a Future that is already resolved with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Rejected returns a Future that is already rejected with err.
func Rejected[T any](err error) *Future[T] {
	if err == nil {
		err = errors.New("rejected with nil error")
	}
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done returns a channel that is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves and returns its outcome.
// There is no timeout: a future that never resolves blocks forever.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// Any erases the value type so futures of different types can share a barrier.
func Any[T any](f *Future[T]) *Future[any] {
	out := &Future[any]{done: make(chan struct{})}
	go func() {
		defer close(out.done)
		v, err := f.Await()
		out.value, out.err = v, err
	}()
	return out
}

// Outcome is the settled state of one future.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Settle waits for every future to resolve and returns their outcomes in
// input order. It never short-circuits: a rejection does not stop the wait
// for the remaining futures. A nil future settles as a zero value.
func Settle[T any](futures []*Future[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(futures))
	for i, f := range futures {
		if f == nil {
			continue
		}
		v, err := f.Await()
		outcomes[i] = Outcome[T]{Value: v, Err: err}
	}
	return outcomes
}

// AwaitAll settles all futures and returns their values in input order.
// If any future rejected, values is nil and the error joins every rejection.
func AwaitAll[T any](futures []*Future[T]) ([]T, error) {
	outcomes := Settle(futures)

	var errs []error
	values := make([]T, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		values[i] = o.Value
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return values, nil
}
