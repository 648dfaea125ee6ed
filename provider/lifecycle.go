package provider

import (
	"context"
	"errors"
)

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup.
type Closeable interface {
	Close(ctx context.Context) error
}

// CloseAll closes every value that implements Closeable and joins the errors.
func CloseAll(ctx context.Context, values ...any) error {
	var errs []error
	for _, v := range values {
		if c, ok := v.(Closeable); ok {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
