// internal/pkg/session/types.go
package session

import "taskdesk/internal/domain/auth"

// persistedVersion is bumped when the on-disk record shape changes.
const persistedVersion = 0

// PersistedRecord is the durable mirror of the session, stored under
// storage.KeySession.
type PersistedRecord struct {
	State   auth.Session `json:"state"`
	Version int          `json:"version"`
}
