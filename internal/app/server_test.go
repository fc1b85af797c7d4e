package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"taskdesk/internal/config"
	"taskdesk/internal/domain/auth"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/pkg/response"
	"taskdesk/internal/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type backend struct {
	token   string
	expired atomic.Bool
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"nameid":      "42",
		"unique_name": "bob",
		"email":       "bob@x.com",
	}).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatal(err)
	}
	b := &backend{token: tok}

	r := gin.New()
	api := r.Group("/api")
	api.POST("/Auth/login", func(c *gin.Context) {
		var req auth.LoginCredentials
		_ = c.ShouldBindJSON(&req)
		if req.Password != "secret1" {
			response.Unauthorized(c, "Invalid username or password")
			return
		}
		response.Success(c, http.StatusOK, "ok", auth.AccessToken{AccessToken: b.token})
	})
	api.POST("/Auth/register", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "Account created", nil)
	})
	api.GET("/Task", func(c *gin.Context) {
		if b.expired.Load() || c.GetHeader("Authorization") != "Bearer "+b.token {
			response.Unauthorized(c, "expired")
			return
		}
		response.Success(c, http.StatusOK, "ok", []task.Task{
			{ID: 1, Title: "write report"},
			{ID: 2, Title: "ship release", Status: task.StatusCompleted},
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

func newTestServer(t *testing.T, baseURL string) (*Server, storage.Storage) {
	t.Helper()

	st := storage.NewMemoryStorage()
	cfg := config.AppConfig{APIBaseURL: baseURL, StorageDriver: config.StorageMemory}
	srv, err := NewServer(context.Background(), cfg, nil, WithStorage(st))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, st
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, to string) {
	t.Helper()
	if w.Code != http.StatusFound || w.Header().Get("Location") != to {
		t.Fatalf("expected 302 %s, got %d %q", to, w.Code, w.Header().Get("Location"))
	}
}

func TestConsoleFlow(t *testing.T) {
	b, baseURL := newBackend(t)
	srv, st := newTestServer(t, baseURL)
	h := srv.Handler()

	expectRedirect(t, do(h, http.MethodGet, "/", ""), "/dashboard")
	expectRedirect(t, do(h, http.MethodGet, "/dashboard", ""), "/login")
	expectRedirect(t, do(h, http.MethodGet, "/dashboard/tasks", ""), "/login")

	if w := do(h, http.MethodGet, "/login", ""); w.Code != http.StatusOK {
		t.Fatalf("login page: %d", w.Code)
	}

	// wrong password keeps the user on the login page with the server message
	w := do(h, http.MethodPost, "/login", `{"username":"bob","password":"nope"}`)
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Fatalf("bad login: %d %s", w.Code, w.Body.String())
	}

	w = do(h, http.MethodPost, "/login", `{"username":"bob","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var login struct {
		Data struct {
			User     auth.User `json:"user"`
			Redirect string    `json:"redirect"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	if login.Data.User.ID != "42" || login.Data.Redirect != "/dashboard" {
		t.Fatalf("unexpected login body %s", w.Body.String())
	}
	if tok, _, _ := storage.Lookup(context.Background(), st, storage.KeyToken); tok != b.token {
		t.Fatal("token not persisted")
	}

	expectRedirect(t, do(h, http.MethodGet, "/login", ""), "/dashboard")
	if w := do(h, http.MethodGet, "/dashboard", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "bob") {
		t.Fatalf("dashboard: %d %s", w.Code, w.Body.String())
	}
	if w := do(h, http.MethodGet, "/dashboard/tasks", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "write report") {
		t.Fatalf("tasks: %d %s", w.Code, w.Body.String())
	}

	// the server revokes the token; the next uncached read logs the user out
	b.expired.Store(true)
	srv.Container().Cache.Clear()

	expectRedirect(t, do(h, http.MethodGet, "/dashboard/tasks", ""), "/login")
	if srv.Container().Session.IsAuthenticated() {
		t.Fatal("session should be cleared after a 401")
	}
	if _, ok, _ := storage.Lookup(context.Background(), st, storage.KeySession); ok {
		t.Fatal("persisted session should be deleted after a 401")
	}
	expectRedirect(t, do(h, http.MethodGet, "/dashboard", ""), "/login")
}

func TestConsoleTaskStatusFilter(t *testing.T) {
	_, baseURL := newBackend(t)
	srv, _ := newTestServer(t, baseURL)
	h := srv.Handler()

	if w := do(h, http.MethodPost, "/login", `{"username":"bob","password":"secret1"}`); w.Code != http.StatusOK {
		t.Fatalf("login: %d", w.Code)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"write report", "ship release"}},
		{query: "?status=all", want: []string{"write report", "ship release"}},
		{query: "?status=completed", want: []string{"ship release"}},
		{query: "?status=0", want: []string{"write report"}},
		{query: "?status=in-progress", want: nil},
	}
	for _, tt := range tests {
		w := do(h, http.MethodGet, "/dashboard/tasks"+tt.query, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d %s", tt.query, w.Code, w.Body.String())
		}
		var page struct {
			Data struct {
				Tasks []task.Task `json:"tasks"`
				Total int         `json:"total"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatal(err)
		}
		if page.Data.Total != len(tt.want) || len(page.Data.Tasks) != len(tt.want) {
			t.Fatalf("%s: expected %v, got %+v", tt.query, tt.want, page.Data.Tasks)
		}
		for i, title := range tt.want {
			if page.Data.Tasks[i].Title != title {
				t.Fatalf("%s: expected %v, got %+v", tt.query, tt.want, page.Data.Tasks)
			}
		}
	}

	// filtering a page never narrows the cached list
	if tasks, err := srv.Container().Tasks.GetTasks(context.Background()); err != nil || len(tasks) != 2 {
		t.Fatalf("cached list changed: %v %v", tasks, err)
	}

	if w := do(h, http.MethodGet, "/dashboard/tasks?status=someday", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: %d %s", w.Code, w.Body.String())
	}
}

func TestConsoleRegisterAndLogout(t *testing.T) {
	_, baseURL := newBackend(t)
	srv, _ := newTestServer(t, baseURL)
	h := srv.Handler()

	w := do(h, http.MethodPost, "/register", `{"email":"bob@x.com","username":"bo"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Username must be at least 3 characters") {
		t.Fatalf("invalid register: %d %s", w.Code, w.Body.String())
	}

	w = do(h, http.MethodPost, "/register",
		`{"email":"bob@x.com","username":"bob","password":"secret1","firstName":"Bob","lastName":"Smith"}`)
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"redirect":"/login"`) {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	if srv.Container().Session.IsAuthenticated() {
		t.Fatal("register must not sign in")
	}

	do(h, http.MethodPost, "/login", `{"username":"bob","password":"secret1"}`)
	if w := do(h, http.MethodPost, "/logout", ""); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	expectRedirect(t, do(h, http.MethodGet, "/dashboard", ""), "/login")
}

func TestOpenRoutes(t *testing.T) {
	_, baseURL := newBackend(t)
	srv, _ := newTestServer(t, baseURL)
	h := srv.Handler()

	if w := do(h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	w := do(h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "taskdesk_forced_logouts_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
	if w := do(h, http.MethodGet, "/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
}

func TestRouteTable(t *testing.T) {
	h := &Handlers{Metrics: http.NotFoundHandler()}
	seen := make(map[string]bool)
	for _, rt := range Routes(h) {
		key := rt.Method + " " + rt.Path
		if seen[key] {
			t.Fatalf("duplicate route %s", key)
		}
		seen[key] = true

		switch {
		case strings.HasPrefix(rt.Path, "/dashboard"), rt.Path == "/logout":
			if rt.Access != AccessProtected {
				t.Errorf("%s should be protected, is %s", key, rt.Access)
			}
		case rt.Path == "/login", rt.Path == "/register":
			if rt.Access != AccessGuest {
				t.Errorf("%s should be guest-only, is %s", key, rt.Access)
			}
		default:
			if rt.Access != AccessOpen {
				t.Errorf("%s should be open, is %s", key, rt.Access)
			}
		}
	}
}
