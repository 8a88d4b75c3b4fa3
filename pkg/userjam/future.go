package userjam

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Response is the raw answer of the report endpoint.
type Response struct {
	StatusCode int
	Body       string
	Header     http.Header
}

// IsSuccess reports whether the endpoint answered with a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Future holds the eventual outcome of a single report request. It is
// completed exactly once.
type Future struct {
	done chan struct{}
	once sync.Once

	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func failedFuture(err error) *Future {
	f := newFuture()
	f.complete(nil, err)
	return f
}

func (f *Future) complete(resp *Response, err error) {
	f.once.Do(func() {
		f.resp = resp
		f.err = err
		close(f.done)
	})
}

// Done is closed once the request finished or failed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future is completed or ctx is done. Cancelling ctx
// only stops waiting, the request keeps running until its own timeout.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result blocks until the future is completed.
func (f *Future) Result() (*Response, error) {
	<-f.done
	return f.resp, f.err
}

// Then calls fn with the outcome on a separate goroutine once the future is completed.
func (f *Future) Then(fn func(resp *Response, err error)) *Future {
	go func() {
		<-f.done
		fn(f.resp, f.err)
	}()
	return f
}

// WaitAll waits for all futures and returns the first error encountered.
func WaitAll(ctx context.Context, futures ...*Future) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, future := range futures {
		future := future
		g.Go(func() error {
			_, err := future.Wait(ctx)
			return err
		})
	}

	return g.Wait()
}
