// internal/pkg/apiclient/envelope.go
package apiclient

import "context"

// Envelope is the uniform wrapper every backend response uses.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Data sends a request and unwraps the envelope's data field.
func Data[T any](ctx context.Context, c *Client, method, path string, body interface{}) (T, error) {
	var env Envelope[T]
	if err := c.Do(ctx, method, path, body, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}
