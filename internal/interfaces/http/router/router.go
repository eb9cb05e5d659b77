package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/domain/identity"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// Public marks a route that needs no role check
const Public identity.Action = ""

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// BasePath returns the versioned API prefix
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// RouteInfo describes one registered route and the permission guarding it
type RouteInfo struct {
	Method   string
	Path     string
	Resource identity.Resource
	Action   identity.Action
}

// DomainGroup collects the routes of one resource. Every route names the
// action it performs; once Guard is set, that action is checked against the
// operator's role before the handler runs.
type DomainGroup struct {
	name       string
	prefix     string
	policy     identity.Policy
	resource   identity.Resource
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	action   identity.Action
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Guard checks every non-public route of the group against policy for resource
func (dg *DomainGroup) Guard(policy identity.Policy, resource identity.Resource) *DomainGroup {
	dg.policy = policy
	dg.resource = resource
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, action identity.Action, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, action, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, action identity.Action, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, action, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, action identity.Action, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, action, handlers)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, action identity.Action, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, action, handlers)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, action identity.Action, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, action, handlers)
}

func (dg *DomainGroup) handle(method, path string, action identity.Action, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		action:   action,
		handlers: handlers,
	})
	return dg
}

// Group creates a sub-group within this domain. The sub-group inherits the
// parent's guard unless it sets its own.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	dg.register(rg, dg.policy, dg.resource)
}

func (dg *DomainGroup) register(rg *gin.RouterGroup, policy identity.Policy, resource identity.Resource) {
	if dg.policy != nil {
		policy, resource = dg.policy, dg.resource
	}

	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		handlers := route.handlers
		if route.action != Public && policy != nil {
			handlers = append([]gin.HandlerFunc{middleware.Authorize(policy, resource, route.action)}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.register(group, policy, resource)
	}
}

// Routes lists the group's routes, subgroups included, relative to base
func (dg *DomainGroup) Routes(base string) []RouteInfo {
	return dg.collect(base, dg.resource)
}

func (dg *DomainGroup) collect(base string, resource identity.Resource) []RouteInfo {
	if dg.policy != nil {
		resource = dg.resource
	}
	prefix := path.Join(base, dg.prefix)

	routes := make([]RouteInfo, 0, len(dg.routes))
	for _, route := range dg.routes {
		info := RouteInfo{Method: route.method, Path: joinRoute(prefix, route.path), Action: route.action}
		if route.action != Public {
			info.Resource = resource
		}
		routes = append(routes, info)
	}
	for _, subgroup := range dg.subgroups {
		routes = append(routes, subgroup.collect(prefix, resource)...)
	}
	return routes
}

func joinRoute(prefix, route string) string {
	if route == "" || route == "/" {
		return prefix
	}
	return path.Join(prefix, route)
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
