// internal/pkg/jwt/decoder.go
package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"taskdesk/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned for tokens whose claims segment cannot be read.
var ErrMalformed = errors.New("malformed token")

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the claims segment of a compact token without verifying the
// signature. The result identifies the user for display only; the server
// remains the authority on whether the token is valid.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 segments, got %d", ErrMalformed, len(parts))
	}

	// accept standard-alphabet payloads too
	seg := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])

	payload, err := segmentParser.DecodeSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("%w: claims segment: %v", ErrMalformed, err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: claims json: %v", ErrMalformed, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claims payload is not an object", ErrMalformed)
	}

	return claims, nil
}

// DecodeUser decodes the token and maps its claims onto a User.
func DecodeUser(token string) (auth.User, error) {
	claims, err := Decode(token)
	if err != nil {
		return auth.User{}, err
	}
	return UserFromClaims(claims), nil
}
