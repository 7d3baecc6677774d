package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"stock-board/src/dataset"
	"stock-board/src/logger"
	"stock-board/src/models"
	"stock-board/src/visitor"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config        *models.MConfig
	Logger        *logger.Logger
	MemoryLimitMB int

	engine   *gin.Engine
	http     *http.Server
	markets  map[models.Market]*dataset.Handle
	order    []models.Market
	visitors *visitor.Service
	limiter  *visitorLimiter

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan models.MDatasetStatus
	register   chan *Client
	unregister chan *Client
	replies    chan clientReply
	done       chan struct{}
	stopOnce   sync.Once
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

// NewAPIServer wires the REST routes for every market handle plus the visitor
// routes and starts the websocket hub.
func NewAPIServer(cfg *models.MConfig, log *logger.Logger, markets []*dataset.Handle, visitors *visitor.Service) *APIServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:   cfg,
		Logger:   log,
		engine:   gin.New(),
		markets:  make(map[models.Market]*dataset.Handle, len(markets)),
		visitors: visitors,
		limiter:  newVisitorLimiter(cfg.Limits.VisitorRatePerSecond, cfg.Limits.VisitorBurst),
		clients:  make(map[*Client]struct{}),
		// Buffered so a publish never waits on the hub loop
		broadcast:  make(chan models.MDatasetStatus, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		replies:    make(chan clientReply),
		done:       make(chan struct{}),
	}
	for _, h := range markets {
		s.markets[h.Market()] = h
		s.order = append(s.order, h.Market())
	}

	s.engine.Use(gin.Recovery(), requestID(), accessLog(log), cors())
	s.setupRoutes()

	go s.runHub()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)

	for _, market := range s.order {
		h := &marketHandlers{
			handle:      s.markets[market],
			searchLimit: s.Config.Limits.SearchLimit,
		}
		h.register(api.Group("/" + string(market)))
	}

	if s.visitors != nil {
		u := &userHandlers{visitors: s.visitors, logger: s.Logger}
		u.register(api.Group("/user"), s.limiter.middleware())
	}

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)

	s.setupFrontend()
}

// Handler exposes the router, mainly for httptest.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop drains in-flight requests and closes every websocket client.
func (s *APIServer) Stop(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.stopOnce.Do(func() { close(s.done) })
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	resp := gin.H{
		"status":          "healthy",
		"memory_limit_mb": s.MemoryLimitMB,
	}
	for _, market := range []models.Market{models.MarketKR, models.MarketUS} {
		loaded, rows := false, 0
		if h, ok := s.markets[market]; ok {
			ds := h.Get()
			loaded, rows = !ds.IsEmpty(), ds.Len()
		}
		resp[string(market)+"_data_loaded"] = loaded
		resp[string(market)+"_data_rows"] = rows
	}
	c.JSON(http.StatusOK, resp)
}

// -----------------------------------------------------------------------------

// statuses returns the current status of the requested markets, or of every
// market when none are named.
func (s *APIServer) statuses(kind string, markets []models.Market) []models.MDatasetStatus {
	if len(markets) == 0 {
		markets = s.order
	}
	out := make([]models.MDatasetStatus, 0, len(markets))
	for _, m := range markets {
		market, ok := models.ParseMarket(string(m))
		if !ok {
			continue
		}
		if h, ok := s.markets[market]; ok {
			out = append(out, h.Status(kind))
		}
	}
	return out
}
