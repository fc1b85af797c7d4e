// internal/domain/auth/entity.go
package auth

// User is the identity shown by the client. It is built from token claims
// at login time and never fetched on its own.
type User struct {
	ID        string `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	Username  string `json:"username" yaml:"username"`
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
}

// DisplayName returns "First Last" when known, else the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Session is the process-wide authentication state.
// IsAuthenticated is true iff User != nil and Token != "".
type Session struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Valid reports whether the session satisfies its invariant.
func (s Session) Valid() bool {
	return s.IsAuthenticated == (s.User != nil && s.Token != "")
}
