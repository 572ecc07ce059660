// Package server exposes the purchase-order form surface over HTTP. The
// interactive form is a separate frontend; this API is what it calls.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"potool/internal/logger"
	"potool/internal/po"
)

// Server hosts the PO form API.
type Server struct {
	svc  *po.Service
	addr string
	log  zerolog.Logger
}

// New creates a server around the pipeline service.
func New(svc *po.Service, addr string) *Server {
	return &Server{
		svc:  svc,
		addr: addr,
		log:  logger.WithComponent("server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	// PO numbers contain slashes, so clients encode them as %2F in the
	// path. Match on the raw path and unescape the captured value.
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	h := newHandler(s.svc)

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.GET("/po/next", h.NextNumber)
		api.GET("/po/new", h.NewOrder)
		api.GET("/po/history", h.History)
		api.GET("/po/:id", h.GetOrder)
		api.POST("/po", h.SaveOrder)
	}

	return r
}

// Run starts serving and blocks.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.addr).Msg("Starting PO form API")
	return s.Router().Run(s.addr)
}

const requestIDHeader = "X-Request-ID"

// requestID tags every request with an identifier for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		log := logger.WithRequestID(id)
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request received")

		c.Next()
	}
}
