// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrHubStopped = errors.New("navigation hub has stopped")
)
