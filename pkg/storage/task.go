package storage

import "context"

// Task is a single-shot asynchronous operation whose completion the caller
// awaits with Wait.
type Task struct {
	done chan struct{}
	err  error
}

// Go starts fn in its own goroutine.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = fn(ctx)
	}()
	return t
}

// Done is closed once the operation has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the operation finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UploadAsync starts an upload as a Task.
func UploadAsync(ctx context.Context, u Uploader, bucket, key string, payload []byte, contentType string) *Task {
	return Go(ctx, func(ctx context.Context) error {
		return u.Upload(ctx, bucket, key, payload, contentType)
	})
}
