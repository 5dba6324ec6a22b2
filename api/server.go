package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/coronavirus-calculator/country"
	"github.com/bitmark-inc/coronavirus-calculator/epidemiology"
	"github.com/bitmark-inc/coronavirus-calculator/schema"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

const (
	defaultRebuildTimeout = 2 * time.Minute

	// a failed rebuild is not retried sooner than this, the stale registry keeps serving
	rebuildRetryInterval = time.Minute
)

// ReferenceData is the static data loaded at process start.
type ReferenceData struct {
	Constants epidemiology.Constants
	AgeData   []schema.AgeGroup
	Mortality []schema.MortalityOutcome
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// current *country.Countries, replaced as a whole once stale
	registry atomic.Value

	rebuildLock    sync.Mutex
	lastRebuild    time.Time
	rebuildTimeout time.Duration

	assembler country.Assembler
	reference ReferenceData

	scope   tally.Scope
	metrics http.Handler
	clock   func() time.Time
}

// NewServer new instance of server. metrics may be nil, in which case /metrics is not served.
func NewServer(
	registry *country.Countries,
	assembler country.Assembler,
	reference ReferenceData,
	scope tally.Scope,
	metrics http.Handler) *Server {
	if scope == nil {
		scope = tally.NoopScope
	}

	s := &Server{
		assembler:      assembler,
		reference:      reference,
		rebuildTimeout: defaultRebuildTimeout,
		scope:          scope,
		metrics:        metrics,
		clock:          time.Now,
	}
	s.registry.Store(registry)
	return s
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(ginrus("API"))
	apiRoute.Use(s.requestMetrics())
	apiRoute.Use(cors.New(corsConfig(viper.GetStringSlice("server.cors_origins"))))
	{
		apiRoute.GET("/countries", s.listCountries)
		apiRoute.GET("/countries/:country", s.countryDetail)
		apiRoute.GET("/countries/:country/history", s.countryHistory)

		apiRoute.GET("/constants", s.getConstants)
		apiRoute.GET("/age-data", s.getAgeData)
		apiRoute.GET("/mortality-by-age", s.getMortalityByAge)
	}

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// recovery turns a panic in a handler into the standard internal server error response.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{"path": c.Request.URL.Path, "panic": r}).Error("request panicked")
				abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
			}
		}()
		c.Next()
	}
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Origin"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthz(c *gin.Context) {
	registry := s.countries()

	c.JSON(http.StatusOK, gin.H{
		"status":   "OK",
		"version":  viper.GetString("server.version"),
		"registry": registry.ID(),
		"stale":    registry.Stale(),
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
