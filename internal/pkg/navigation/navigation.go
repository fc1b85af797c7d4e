// internal/pkg/navigation/navigation.go
package navigation

// Route identifies a page of the client.
type Route string

const (
	RouteRoot       Route = "/"
	RouteLogin      Route = "/login"
	RouteRegister   Route = "/register"
	RouteDashboard  Route = "/dashboard"
	RouteTasks      Route = "/dashboard/tasks"
	RouteCategories Route = "/dashboard/categories"
)

func (r Route) String() string { return string(r) }

// Navigator performs a hard navigation: whatever the user is looking at is
// replaced by the target route.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Multi fans a navigation out to every navigator in order.
type Multi []Navigator

func (m Multi) Navigate(r Route) {
	for _, n := range m {
		if n != nil {
			n.Navigate(r)
		}
	}
}
