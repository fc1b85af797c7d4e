// internal/handlers/errors.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"taskdesk/internal/pkg/apiclient"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Fail writes the console answer for a service error. A rejected session
// sends the page back to the login route; everything else is shown to the
// user through the standard envelope.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *apiclient.APIError
	switch {
	case xerrors.Is(err, xerrors.ErrSessionExpired), xerrors.Is(err, xerrors.ErrNotAuthenticated):
		response.Redirect(c, navigation.RouteLogin.String())
	case errors.As(err, &apiErr):
		if len(apiErr.Errors) > 0 {
			response.ValidationError(c, apiErr.UserMessage(), apiErr.Errors)
			return
		}
		response.Error(c, apiErr.Status, apiErr.UserMessage(), nil)
	case xerrors.Is(err, xerrors.ErrInvalidServerResponse):
		response.Error(c, http.StatusBadGateway, "invalid server response", nil)
	case xerrors.Is(err, xerrors.ErrNetwork):
		response.Error(c, http.StatusBadGateway, "could not reach the server", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// BindJSON binds the body into req, answering with a field map on failure.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fields := ValidationFields(err)
		if len(fields) == 0 {
			response.Error(c, http.StatusBadRequest, "invalid request", err)
			return false
		}
		response.ValidationError(c, xerrors.FlattenValidation(fields), fields)
		return false
	}
	return true
}

// ValidationFields turns binding errors into field -> messages.
func ValidationFields(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", name, strings.ToLower(fe.Tag()))
}
