// Package httpapi is the thin REST surface over the POC: request
// decoding only, no business logic beyond mapping errors to status codes.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/libreassistant/poc/internal/poc/dispatcher"
	"github.com/libreassistant/poc/internal/poc/lifecycle"
	"github.com/libreassistant/poc/internal/poc/manifest"
	"github.com/libreassistant/poc/internal/poc/permission"
	"github.com/libreassistant/poc/internal/poc/store"
	"github.com/libreassistant/poc/internal/poc/supervisor"
	"github.com/libreassistant/poc/internal/poc/tracker"
)

// Server bundles every POC component the HTTP surface decodes requests
// onto.
type Server struct {
	registry   *manifest.Registry
	gate       *permission.Gate
	supervisor *supervisor.Supervisor
	controller *lifecycle.Controller
	dispatcher *dispatcher.Dispatcher
	tracker    *tracker.Tracker
	history    store.ChatHistoryStore
}

// New builds a Server; history may be nil (persistence is optional).
func New(
	registry *manifest.Registry,
	gate *permission.Gate,
	sup *supervisor.Supervisor,
	controller *lifecycle.Controller,
	disp *dispatcher.Dispatcher,
	tr *tracker.Tracker,
	history store.ChatHistoryStore,
) *Server {
	return &Server{
		registry:   registry,
		gate:       gate,
		supervisor: sup,
		controller: controller,
		dispatcher: disp,
		tracker:    tr,
		history:    history,
	}
}

// Router builds the gin engine exposing the routes named in the external
// interfaces section: GET /plugins, POST/GET /plugins/{id}/..., POST
// /chat, GET /plugins/usage.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/plugins", s.listPlugins)
	r.POST("/plugins/:id/start", s.startPlugin)
	r.POST("/plugins/:id/stop", s.stopPlugin)
	r.POST("/plugins/:id/clear", s.clearPlugin)
	r.GET("/plugins/:id/status", s.pluginStatus)
	r.GET("/plugins/usage", s.usageSnapshot)
	r.POST("/chat", s.chat)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	return r
}

func requestID() string {
	return uuid.NewString()
}

func startContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
