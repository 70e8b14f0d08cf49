package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/riyarao-9-12/collaborative-drawing/pkg/clients"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/config"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/health"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/logger"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/messaging"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/middleware"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/session"
	"github.com/riyarao-9-12/collaborative-drawing/pkg/storage"
)

// Server hosts one shared whiteboard session
type Server struct {
	cfg         *config.ServerConfig
	hub         *clients.Hub
	coordinator *session.Coordinator
	dispatcher  *messaging.Dispatcher
	store       storage.Store
	monitor     *health.Monitor
	log         *logger.Logger

	httpServer *http.Server
	serverMu   sync.Mutex
}

// NewServer creates a server over an empty session
func NewServer(cfg *config.ServerConfig) (*Server, error) {
	log := logger.Get().Component("server")

	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		// The archive is an observer, not a dependency; run without it.
		log.WarnWith("archive store unavailable, continuing without it", "error", err)
		store = nil
	}

	hub := clients.NewHub()

	var archive session.Archive
	if store != nil {
		archive = store
	}
	coordinator := session.NewCoordinator(cfg.Palette(), cfg.Session.MaxHistory, hub, archive)

	dispatcher := messaging.NewDispatcher()
	if err := messaging.RegisterSessionHandlers(dispatcher, coordinator); err != nil {
		return nil, err
	}

	monitor := health.NewMonitor()
	monitor.SetComponentStatus("hub", health.StatusHealthy, "")
	if store != nil {
		monitor.SetComponentStatus("archive", health.StatusHealthy, "")
	} else if cfg.Database.Type != "none" {
		monitor.SetComponentStatus("archive", health.StatusDegraded, "store unavailable")
	}

	return &Server{
		cfg:         cfg,
		hub:         hub,
		coordinator: coordinator,
		dispatcher:  dispatcher,
		store:       store,
		monitor:     monitor,
		log:         log,
	}, nil
}

// setupRouter builds the gin router with all routes and middleware
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(s.log))
	router.Use(middleware.CORS())

	router.GET("/ws", s.handleWebSocket)

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/users", s.handleUsers)
		api.GET("/history", s.handleHistory)
		api.GET("/stats", s.handleStats)
	}

	// Whiteboard front-end; everything not matched above is a static asset
	if s.cfg.StaticDir != "" {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	return router
}

// Start runs the HTTP server until it is shut down
func (s *Server) Start() error {
	router := s.setupRouter()

	httpServer := &http.Server{
		Addr:    s.cfg.Address,
		Handler: router,
	}

	s.serverMu.Lock()
	s.httpServer = httpServer
	s.serverMu.Unlock()

	s.log.InfoWith("server listening", "address", s.cfg.Address)
	return httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server: drain HTTP, close every connection,
// close the archive
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.InfoWith("shutting down")

	s.serverMu.Lock()
	httpServer := s.httpServer
	s.serverMu.Unlock()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.log.ErrorWithErr("http shutdown failed, forcing close", err)
			httpServer.Close()
		}
	}

	s.hub.Stop()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorWithErr("archive close failed", err)
		}
	}

	s.log.InfoWith("shutdown complete")
	return nil
}
