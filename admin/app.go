package admin

import (
	"net/http"

	"github.com/c3pb/rabbitmq-mqtt/nova"
	"github.com/c3pb/rabbitmq-mqtt/nova/request"
	"github.com/c3pb/rabbitmq-mqtt/nova/response"
	"github.com/c3pb/rabbitmq-mqtt/problem"
)

// App is an atlas.App exposing the bridge's connected sessions.
type App struct {
	registry *Registry
	auth     nova.Middleware
}

// NewApp returns an App that serves introspection routes backed by
// registry, protected by the given admin-credential middleware (see
// BasicAuth).
func NewApp(registry *Registry, auth nova.Middleware) *App {
	return &App{registry: registry, auth: auth}
}

// Register wires the admin routes into router, matching atlas.App.
func (a *App) Register(router *nova.Router) error {
	admin := router.With(a.auth)

	admin.Get("/sessions", a.listSessions)
	admin.Get("/sessions/{id}", a.getSession)

	return nil
}

func (a *App) listSessions(w http.ResponseWriter, r *http.Request) error {
	return response.JSON(w, http.StatusOK, a.registry.Snapshots())
}

func (a *App) getSession(w http.ResponseWriter, r *http.Request) error {
	id := request.Param(r, "id")

	snapshot, ok := a.registry.Snapshot(id)

	if !ok {
		return problem.New(http.StatusNotFound, "session not found").WithInstance(id)
	}

	return response.JSON(w, http.StatusOK, snapshot)
}
