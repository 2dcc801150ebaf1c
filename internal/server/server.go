// Package server implements the HTTP gateway the chat client talks to.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billie-coop/genomechat/internal/llm"
	"github.com/billie-coop/genomechat/internal/logger"
)

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	SystemPrompt   string
	Registry       *prometheus.Registry
	Logger         *logger.Logger
}

// Server routes /health, /chat and /metrics.
type Server struct {
	engine       *gin.Engine
	completer    llm.Completer
	systemPrompt string
	metrics      *metrics
	log          *logger.Logger
}

// New builds the gateway around a completion provider.
func New(completer llm.Completer, opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Server{
		engine:       gin.New(),
		completer:    completer,
		systemPrompt: opts.SystemPrompt,
		metrics:      newMetrics(opts.Registry),
		log:          opts.Logger,
	}

	s.engine.Use(gin.Recovery(), requestLogger(s.log))
	if len(opts.AllowedOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
		}))
	}

	s.engine.GET("/health", s.health)
	s.engine.POST("/chat", s.chat)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	return s
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
