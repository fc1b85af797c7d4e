package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdesk/internal/domain/auth"
	"taskdesk/internal/pkg/apiclient"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/querycache"
	"taskdesk/internal/pkg/response"
	"taskdesk/internal/pkg/session"
	"taskdesk/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bobToken(t *testing.T) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"unique_name": "bob",
		"nameid":      "42",
		"email":       "bob@x.com",
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func newService(t *testing.T, routes func(r *gin.Engine)) (*AuthService, *session.Store, *querycache.Cache) {
	t.Helper()

	r := gin.New()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	st := storage.NewMemoryStorage()
	sess := session.NewStore(st, nil)
	cache := querycache.New(nil, nil)
	client := apiclient.New(srv.URL, st, sess, nil, nil)

	return NewAuthService(client, sess, cache, zap.NewNop()), sess, cache
}

func TestLoginRoundTrip(t *testing.T) {
	tok := bobToken(t)

	var gotCreds auth.LoginCredentials
	svc, sess, _ := newService(t, func(r *gin.Engine) {
		r.POST("/Auth/login", func(c *gin.Context) {
			if err := c.ShouldBindJSON(&gotCreds); err != nil {
				response.Error(c, http.StatusBadRequest, "bad", err)
				return
			}
			response.Success(c, http.StatusOK, "ok", auth.AccessToken{AccessToken: tok})
		})
	})

	res, err := svc.Login(context.Background(), &auth.LoginCredentials{Username: "bob", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	want := auth.User{ID: "42", Username: "bob", Email: "bob@x.com"}
	if res.User != want {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.Token != tok {
		t.Fatal("expected the raw token back")
	}
	if gotCreds.Username != "bob" || gotCreds.Password != "secret1" {
		t.Fatalf("server saw %+v", gotCreds)
	}
	if sess.IsAuthenticated() {
		t.Fatal("Login must not write the session store")
	}
}

func TestStartSessionAndLogout(t *testing.T) {
	svc, sess, cache := newService(t, func(r *gin.Engine) {})
	ctx := context.Background()

	_, _ = querycache.Fetch(ctx, cache, querycache.KeyTasks, func(context.Context) (int, error) { return 1, nil })

	res := &auth.LoginResult{User: auth.User{ID: "42", Username: "bob"}, Token: bobToken(t)}
	if err := svc.StartSession(ctx, res); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}
	if _, ok := cache.FetchedAt(querycache.KeyTasks); ok {
		t.Fatal("starting a session must drop cached queries")
	}
	if u, err := svc.CurrentUser(); err != nil || u.ID != "42" {
		t.Fatalf("CurrentUser = %+v, %v", u, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.IsAuthenticated() {
		t.Fatal("expected signed out")
	}
	if _, err := svc.CurrentUser(); !errors.Is(err, xerrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoginInvalidServerResponse(t *testing.T) {
	tests := map[string]string{
		"missing token":   "",
		"malformed token": "not-a-jwt",
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newService(t, func(r *gin.Engine) {
				r.POST("/Auth/login", func(c *gin.Context) {
					response.Success(c, http.StatusOK, "ok", auth.AccessToken{AccessToken: tok})
				})
			})

			_, err := svc.Login(context.Background(), &auth.LoginCredentials{Username: "bob", Password: "x"})
			if !errors.Is(err, xerrors.ErrInvalidServerResponse) {
				t.Fatalf("expected ErrInvalidServerResponse, got %v", err)
			}
		})
	}
}

func TestLoginFailurePassesServerMessage(t *testing.T) {
	svc, _, _ := newService(t, func(r *gin.Engine) {
		r.POST("/Auth/login", func(c *gin.Context) {
			response.Error(c, http.StatusBadRequest, "Invalid username or password", nil)
		})
	})

	_, err := svc.Login(context.Background(), &auth.LoginCredentials{Username: "bob", Password: "bad"})
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.UserMessage() != "Invalid username or password" {
		t.Fatalf("unexpected message %q", apiErr.UserMessage())
	}
}

func TestRegister(t *testing.T) {
	data := &auth.RegisterData{
		Email: "bob@x.com", Username: "bob", Password: "secret1", FirstName: "Bob", LastName: "B",
	}

	t.Run("confirmation only", func(t *testing.T) {
		svc, sess, _ := newService(t, func(r *gin.Engine) {
			r.POST("/Auth/register", func(c *gin.Context) {
				response.Success(c, http.StatusCreated, "Account created", nil)
			})
		})

		res, err := svc.Register(context.Background(), data)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if !res.Success || res.Message != "Account created" {
			t.Fatalf("unexpected result %+v", res)
		}
		if sess.IsAuthenticated() {
			t.Fatal("registration must not sign the user in")
		}
	})

	t.Run("token envelope is ignored", func(t *testing.T) {
		tok := bobToken(t)
		svc, sess, _ := newService(t, func(r *gin.Engine) {
			r.POST("/Auth/register", func(c *gin.Context) {
				response.Success(c, http.StatusOK, "", auth.AccessToken{AccessToken: tok})
			})
		})

		res, err := svc.Register(context.Background(), data)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if res.Message != defaultRegisterMessage {
			t.Fatalf("expected default message, got %q", res.Message)
		}
		if sess.IsAuthenticated() {
			t.Fatal("registration must not sign the user in")
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		svc, _, _ := newService(t, func(r *gin.Engine) {
			r.POST("/Auth/register", func(c *gin.Context) {
				response.ValidationError(c, "validation failed", map[string][]string{
					"Username": {"Username already taken"},
				})
			})
		})

		_, err := svc.Register(context.Background(), data)
		var apiErr *apiclient.APIError
		if !errors.As(err, &apiErr) || apiErr.UserMessage() != "Username already taken" {
			t.Fatalf("expected flattened validation message, got %v", err)
		}
	})

	t.Run("success false on 2xx", func(t *testing.T) {
		svc, _, _ := newService(t, func(r *gin.Engine) {
			r.POST("/Auth/register", func(c *gin.Context) {
				c.JSON(http.StatusOK, response.Response{Success: false, Message: "Email already registered"})
			})
		})

		_, err := svc.Register(context.Background(), data)
		if !errors.Is(err, xerrors.ErrRequestFailed) {
			t.Fatalf("expected ErrRequestFailed, got %v", err)
		}
	})
}
