// internal/app/router.go
package app

import (
	"net/http"

	authHandler "taskdesk/internal/handlers/auth"
	categoryHandler "taskdesk/internal/handlers/category"
	taskHandler "taskdesk/internal/handlers/task"
	wsHandler "taskdesk/internal/handlers/websocket"
	"taskdesk/internal/middleware"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"
	"taskdesk/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

// Access says which guard, if any, fronts a route.
type Access int

const (
	AccessOpen Access = iota
	AccessGuest
	AccessProtected
)

func (a Access) String() string {
	switch a {
	case AccessOpen:
		return "open"
	case AccessGuest:
		return "guest"
	case AccessProtected:
		return "protected"
	}
	return "unknown"
}

type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	TaskHandler     *taskHandler.TaskHandler
	CategoryHandler *categoryHandler.CategoryHandler
	WSHandler       *wsHandler.WebSocketHandler
	Metrics         http.Handler
}

// Routes is the console's complete route table.
func Routes(h *Handlers) []Route {
	return []Route{
		// ==================== Open ====================
		{http.MethodGet, "/", AccessOpen, redirectTo(navigation.RouteDashboard)},
		{http.MethodGet, "/health", AccessOpen, health},
		{http.MethodGet, "/metrics", AccessOpen, gin.WrapH(h.Metrics)},
		{http.MethodGet, "/ws", AccessOpen, h.WSHandler.HandleConnection},
		{http.MethodGet, "/ws/stats", AccessOpen, h.WSHandler.GetStats},

		// ==================== Guest ====================
		{http.MethodGet, "/login", AccessGuest, h.AuthHandler.LoginPage},
		{http.MethodPost, "/login", AccessGuest, h.AuthHandler.Login},
		{http.MethodGet, "/register", AccessGuest, h.AuthHandler.RegisterPage},
		{http.MethodPost, "/register", AccessGuest, h.AuthHandler.Register},

		// ==================== Protected ====================
		{http.MethodGet, "/dashboard", AccessProtected, h.AuthHandler.Dashboard},
		{http.MethodPost, "/logout", AccessProtected, h.AuthHandler.Logout},

		{http.MethodGet, "/dashboard/tasks", AccessProtected, h.TaskHandler.ListTasks},
		{http.MethodPost, "/dashboard/tasks", AccessProtected, h.TaskHandler.CreateTask},
		{http.MethodGet, "/dashboard/tasks/:id", AccessProtected, h.TaskHandler.GetTask},
		{http.MethodPut, "/dashboard/tasks/:id", AccessProtected, h.TaskHandler.UpdateTask},
		{http.MethodDelete, "/dashboard/tasks/:id", AccessProtected, h.TaskHandler.DeleteTask},

		{http.MethodGet, "/dashboard/categories", AccessProtected, h.CategoryHandler.ListCategories},
		{http.MethodPost, "/dashboard/categories", AccessProtected, h.CategoryHandler.CreateCategory},
		{http.MethodGet, "/dashboard/categories/:id", AccessProtected, h.CategoryHandler.GetCategory},
		{http.MethodPut, "/dashboard/categories/:id", AccessProtected, h.CategoryHandler.UpdateCategory},
		{http.MethodDelete, "/dashboard/categories/:id", AccessProtected, h.CategoryHandler.DeleteCategory},
	}
}

func SetupRouter(r *gin.Engine, store *session.Store, h *Handlers) {
	requireAuth := middleware.RequireAuth(store)
	requireGuest := middleware.RequireGuest(store)

	for _, rt := range Routes(h) {
		switch rt.Access {
		case AccessGuest:
			r.Handle(rt.Method, rt.Path, requireGuest, rt.Handler)
		case AccessProtected:
			r.Handle(rt.Method, rt.Path, requireAuth, rt.Handler)
		default:
			r.Handle(rt.Method, rt.Path, rt.Handler)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "page not found")
	})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func redirectTo(route navigation.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Redirect(c, route.String())
	}
}
