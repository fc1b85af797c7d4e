// internal/domain/auth/dto.go
package auth

// LoginCredentials for POST /Auth/login
type LoginCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterData for POST /Auth/register
type RegisterData struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=3"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,min=2"`
	LastName  string `json:"lastName" binding:"required,min=2"`
}

// AccessToken is the data payload of the auth endpoints.
type AccessToken struct {
	AccessToken string `json:"accessToken"`
	Expiration  string `json:"expiration,omitempty"`
}

// LoginResult is what a successful login yields. Writing it into the
// session store is left to the caller.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RegisterResult is the confirmation returned by registration.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
