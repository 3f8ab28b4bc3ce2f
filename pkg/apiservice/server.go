package apiservice

import (
	"context"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/metrics"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// maxConfigSize bounds the body of a check request.
	maxConfigSize     = 1 << 20
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second
)

type APIService struct {
	APIInfo *APIInfo
	Metric  *metrics.Metrics

	destinations map[string]*destination.Destination
	router       *gin.Engine
}

// New serves checks for the given vendor profiles. Extra options are applied
// to every destination.
func New(profiles []destination.VendorProfile, opts ...destination.Option) *APIService {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	apiInfo := NewAPIInfo(names)
	apiInfo.registerRouter(r)

	metric := RegisterMetric(r)

	service := &APIService{
		APIInfo:      apiInfo,
		Metric:       metric,
		destinations: make(map[string]*destination.Destination, len(profiles)),
		router:       r,
	}
	for _, p := range profiles {
		destOpts := append([]destination.Option{
			destination.WithCheckObserver(apiInfo.ObserveCheck),
			destination.WithCheckObserver(func(dest string, status destination.ConnectionStatus, elapsed time.Duration) {
				metric.ObserveCheck(dest, string(status.Status), elapsed)
			}),
		}, opts...)
		service.destinations[p.Name] = destination.New(p, nil, destOpts...)
	}
	r.POST("/check/:destination", service.handleCheck)
	return service
}

// RegisterMetric registers the metric handler.
func RegisterMetric(router *gin.Engine) *metrics.Metrics {
	metric := metrics.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metric.RegisterTo(registry)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	router.GET("/metrics", func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	})
	return metric
}

func (service *APIService) handleCheck(c *gin.Context) {
	name := c.Param("destination")
	dest, ok := service.destinations[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown destination " + name})
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg, err := destination.ParseRawConfig(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service.Metric.CheckStarted(name)
	defer service.Metric.CheckFinished(name)
	status := dest.Check(c.Request.Context(), cfg)
	c.JSON(http.StatusOK, status.ToMessage())
}

// Handler exposes the router, e.g. for tests.
func (service *APIService) Handler() http.Handler {
	return service.router
}

// Serve serves on l until SIGINT or SIGTERM.
func (service *APIService) Serve(l net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return service.ServeContext(ctx, l)
}

// ServeContext serves on l until ctx is done, then shuts down gracefully.
func (service *APIService) ServeContext(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: service.router, ReadHeaderTimeout: readHeaderTimeout}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("API service started", zap.String("address", l.Addr().String()))
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			return errors.Annotate(err, "Serve failed")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down API service ...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Trace(srv.Shutdown(shutdownCtx))
	})
	return eg.Wait()
}
