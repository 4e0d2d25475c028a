package userserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-user-api/internal/shared/links"
)

// Route names referenced by the link generator.
const (
	RouteGetUsers            = "GetUsers"
	RouteCreateUser          = "CreateUser"
	RouteOptionsUsers        = "OptionsUsers"
	RouteGetUserById         = "GetUserById"
	RouteHeadUserById        = "HeadUserById"
	RouteUpsertUser          = "UpsertUser"
	RoutePartiallyUpdateUser = "PartiallyUpdateUser"
	RouteDeleteUser          = "DeleteUser"
)

// Route defines the parameters for an api endpoint.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is a map of defined api endpoints.
type Routes []Route

// ApiHandleFunctions bundles the per-resource handler sets served by the router.
type ApiHandleFunctions struct {
	UsersAPI UsersAPI
}

// NewRouter returns a new gin engine with all user routes registered. When a
// link generator is provided, each named route is registered with it so
// handlers can render Location headers and pagination links.
func NewRouter(handleFunctions ApiHandleFunctions, linkGen *links.Generator) *gin.Engine {
	router := gin.Default()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
		if linkGen != nil {
			linkGen.Register(route.Name, route.Pattern)
		}
	}
	return router
}

// DefaultHandleFunc is used when a route has no handler attached yet.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	api := handleFunctions.UsersAPI
	return Routes{
		{RouteGetUsers, http.MethodGet, "/api/users", api.GetUsers},
		{RouteCreateUser, http.MethodPost, "/api/users", api.CreateUser},
		{RouteOptionsUsers, http.MethodOptions, "/api/users", api.OptionsUsers},
		{RouteGetUserById, http.MethodGet, "/api/users/:id", api.GetUserById},
		{RouteHeadUserById, http.MethodHead, "/api/users/:id", api.HeadUserById},
		{RouteUpsertUser, http.MethodPut, "/api/users/:id", api.UpsertUser},
		{RoutePartiallyUpdateUser, http.MethodPatch, "/api/users/:id", api.PartiallyUpdateUser},
		{RouteDeleteUser, http.MethodDelete, "/api/users/:id", api.DeleteUser},
	}
}
