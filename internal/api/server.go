// Package api exposes the simulation engine over HTTP and websocket.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/config"
	"l2-da-lab/internal/observability"
	"l2-da-lab/internal/reporting"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	defaults       config.DefaultsConfig
	source         chaindata.BlockRangeSource
	metrics        *observability.Metrics
	metricsHandler http.Handler
	generator      *reporting.Generator
	logger         logrus.FieldLogger
	now            func() time.Time
	upgrader       websocket.Upgrader
	ws             WSConfig
}

// Options contains configuration for creating a Server.
type Options struct {
	Defaults       config.DefaultsConfig
	Source         chaindata.BlockRangeSource // nil uses chaindata.Placeholder
	Metrics        *observability.Metrics     // nil uses observability.DefaultMetrics
	MetricsHandler http.Handler               // nil serves the default Prometheus registry
	Logger         logrus.FieldLogger
	Now            func() time.Time
	WS             *WSConfig
}

// WSConfig configures websocket session timing.
type WSConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultWSConfig returns default websocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
		WriteWait:  10 * time.Second,
	}
}

// NewServer creates a server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	source := opts.Source
	if source == nil {
		source = chaindata.NewPlaceholder(logger.WithField("component", "chaindata"))
	}
	m := opts.Metrics
	if m == nil {
		m = observability.DefaultMetrics
	}
	mh := opts.MetricsHandler
	if mh == nil {
		mh = observability.Handler()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	ws := DefaultWSConfig()
	if opts.WS != nil {
		ws = *opts.WS
	}

	return &Server{
		defaults:       opts.Defaults,
		source:         source,
		metrics:        m,
		metricsHandler: mh,
		generator:      reporting.NewGenerator().WithClock(now),
		logger:         logger,
		now:            now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws: ws,
	}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(s.metricsHandler))
	r.GET("/ws", s.WebSocket)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/defaults", s.Defaults)
		v1.POST("/simulate", s.Simulate)
		v1.POST("/export/csv", s.ExportCSV)
		v1.POST("/export/markdown", s.ExportMarkdown)
		v1.POST("/query-range", s.QueryRange)
	}

	return r
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}

// cors allows browser front ends on other origins.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
