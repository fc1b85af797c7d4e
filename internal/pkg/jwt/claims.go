// internal/pkg/jwt/claims.go
package jwt

import (
	"strconv"

	"taskdesk/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names issued by the backend (ASP.NET short claim names).
const (
	ClaimNameID     = "nameid"
	ClaimSubject    = "sub"
	ClaimUniqueName = "unique_name"
	ClaimEmail      = "email"
	ClaimFirstName  = "FirstName"
	ClaimLastName   = "LastName"
)

// Claims is the untyped claims payload of a token.
type Claims = jwt.MapClaims

// UserFromClaims maps claims onto a User. Missing claims leave the field empty.
func UserFromClaims(c Claims) auth.User {
	id := claimString(c, ClaimNameID)
	if id == "" {
		id = claimString(c, ClaimSubject)
	}

	return auth.User{
		ID:        id,
		Username:  claimString(c, ClaimUniqueName),
		Email:     claimString(c, ClaimEmail),
		FirstName: claimString(c, ClaimFirstName),
		LastName:  claimString(c, ClaimLastName),
	}
}

func claimString(c Claims, name string) string {
	switch v := c[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		// multi-valued claims: first string wins
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
