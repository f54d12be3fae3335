package main

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relique/dynamicfields"
	"github.com/relique/dynamicfields/internal/config"
	"github.com/relique/dynamicfields/internal/observability"
	"github.com/relique/dynamicfields/middleware"
	"github.com/relique/dynamicfields/serializer"
)

// app wires the filter, serializers, and metrics registry. The filter
// and serializers are rebuilt on config reload behind a mutex so
// in-flight requests keep a consistent snapshot.
type app struct {
	cfg      *config.Config
	logger   observability.Logger
	registry *prometheus.Registry

	mu       sync.RWMutex
	filter   *dynamicfields.Filter
	userSer  *serializer.Serializer
	usersSer *serializer.Serializer
	fieldSel gin.HandlerFunc
}

// newApp initializes the application from configuration.
func newApp(cfg *config.Config, logger observability.Logger) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := dynamicfields.GetFilterMetrics()
	metrics.MustRegister(registry)
	metrics.Init()

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
	}

	if err := a.rebuild(cfg); err != nil {
		return nil, err
	}

	return a, nil
}

// rebuild constructs the filter and serializers for the given
// configuration and swaps them in.
func (a *app) rebuild(cfg *config.Config) error {
	filter := dynamicfields.New(dynamicfields.Options{
		FieldsParam:            cfg.Filter.FieldsParam,
		OmitParam:              cfg.Filter.OmitParam,
		SuppressContextWarning: cfg.Filter.SuppressContextWarning,
	}, a.logger)

	userSer, err := serializer.New(User{},
		serializer.WithFilter(filter),
		serializer.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	usersSer, err := serializer.New(User{},
		serializer.Many(),
		serializer.WithFilter(filter),
		serializer.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	fieldSel := middleware.GinFieldSelection(middleware.Config{
		Filter:      filter,
		Logger:      a.logger,
		MaxBodySize: cfg.Filter.MaxBodySize,
	})

	a.mu.Lock()
	a.cfg = cfg
	a.filter = filter
	a.userSer = userSer
	a.usersSer = usersSer
	a.fieldSel = fieldSel
	a.mu.Unlock()

	return nil
}

// applyConfig is the config watcher reload callback.
func (a *app) applyConfig(cfg *config.Config) {
	if err := a.rebuild(cfg); err != nil {
		a.logger.Error("failed to apply reloaded configuration", observability.Error(err))
		return
	}
	a.logger.Info("filter settings reloaded",
		observability.String("fields_param", cfg.Filter.FieldsParam),
		observability.String("omit_param", cfg.Filter.OmitParam),
	)
}

// snapshot returns the current filter and serializers.
func (a *app) snapshot() (*dynamicfields.Filter, *serializer.Serializer, *serializer.Serializer) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filter, a.userSer, a.usersSer
}

// routes builds the gin engine.
func (a *app) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.GinRequestID())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	engine.GET("/users", a.listUsers)
	engine.GET("/users/:id", a.getUser)

	// The /raw routes return pre-rendered JSON; field selection happens
	// in middleware instead of the serializer.
	raw := engine.Group("/raw")
	raw.Use(a.fieldSelection())
	raw.GET("/users", a.listUsersRaw)

	return engine
}

// fieldSelection dispatches to the field selection handler built by
// the last rebuild, so a config reload takes effect without
// restarting.
func (a *app) fieldSelection() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.RLock()
		handler := a.fieldSel
		a.mu.RUnlock()
		handler(c)
	}
}
