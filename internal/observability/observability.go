package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ValerySidorin/smppc"

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

type TracingConfig struct {
	Enabled      bool           `yaml:"enabled"`
	OTLPEndpoint string         `yaml:"otlp_endpoint"`
	Insecure     bool           `yaml:"insecure"`
	SampleRatio  float64        `yaml:"sample_ratio"`
	Resource     ResourceConfig `yaml:"resource"`
}

type ResourceConfig struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

type Config struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

func (c *Config) SetDefaults() {
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}
	if c.Tracing.Resource.ServiceName == "" {
		c.Tracing.Resource.ServiceName = "smppc"
	}
}

var (
	metricsEnabled int32
	tracingEnabled int32

	defaultTracer trace.Tracer

	commandsTotal      *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec
	requestDurationSec *prometheus.HistogramVec
	writeLatencySec    *prometheus.HistogramVec
	sessionState       prometheus.Gauge

	metricsAddr string
)

func MetricsEnabled() bool {
	return atomic.LoadInt32(&metricsEnabled) == 1
}

func TracingEnabled() bool {
	return atomic.LoadInt32(&tracingEnabled) == 1
}

func Tracer() trace.Tracer {
	if defaultTracer != nil {
		return defaultTracer
	}
	return otel.Tracer(instrumentationName)
}

// Init starts the metrics endpoint and the OTLP trace pipeline enabled in cfg.
// The returned func stops them in reverse order.
func Init(ctx context.Context, cfg Config, l *slog.Logger) (func(context.Context) error, error) {
	cfg.SetDefaults()
	shutdownFns := []func(context.Context) error{}

	if cfg.Metrics.Enabled {
		reg := registerMetrics()
		atomic.StoreInt32(&metricsEnabled, 1)

		ln, err := net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			atomic.StoreInt32(&metricsEnabled, 0)
			return nil, err
		}

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Error("metrics http server", "err", err)
			}
		}()
		metricsAddr = ln.Addr().String()
		l.Info("metrics server started", "addr", metricsAddr, "path", cfg.Metrics.Path)
		shutdownFns = append(shutdownFns, func(ctx context.Context) error {
			atomic.StoreInt32(&metricsEnabled, 0)
			return httpSrv.Shutdown(ctx)
		})
	}

	if cfg.Tracing.Enabled {
		var opts []otlptracegrpc.Option
		opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Tracing.OTLPEndpoint))
		if cfg.Tracing.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			l.Error("init otlp exporter", "err", err)
		} else {
			tp := newTracerProvider(cfg.Tracing, sdktrace.WithBatcher(exp))
			otel.SetTracerProvider(tp)
			defaultTracer = tp.Tracer(instrumentationName)
			atomic.StoreInt32(&tracingEnabled, 1)
			l.Info("tracing enabled", "endpoint", cfg.Tracing.OTLPEndpoint)
			shutdownFns = append(shutdownFns, func(ctx context.Context) error {
				atomic.StoreInt32(&tracingEnabled, 0)
				return tp.Shutdown(ctx)
			})
		}
	}

	return func(ctx context.Context) error {
		var errs []error
		for i := len(shutdownFns) - 1; i >= 0; i-- {
			errs = append(errs, shutdownFns[i](ctx))
		}
		return errors.Join(errs...)
	}, nil
}

func newTracerProvider(cfg TracingConfig, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.Resource.ServiceName),
		attribute.String("service.version", cfg.Resource.ServiceVersion),
		attribute.String("deployment.environment", cfg.Resource.Environment),
	))
	return sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(res),
	}, opts...)...)
}

func registerMetrics() *prometheus.Registry {
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smppc_commands_total",
		Help: "SMPP commands by direction and command id",
	}, []string{"direction", "command"})
	errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "smppc_errors_total",
		Help: "Errors by stage and kind",
	}, []string{"stage", "kind"})
	requestDurationSec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smppc_request_duration_seconds",
		Help:    "Time from request write to response",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})
	writeLatencySec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smppc_forward_write_latency_seconds",
		Help:    "Connector write latency of forwarded deliveries",
		Buckets: prometheus.DefBuckets,
	}, []string{"connector"})
	sessionState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smppc_session_state",
		Help: "Current session state (0 unbound, 1 binding, 2 bound, 3 unbinding, 4 closed)",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		commandsTotal, errorsTotal, requestDurationSec, writeLatencySec, sessionState,
	)
	return reg
}

func IncCommand(direction, command string) {
	commandsTotal.WithLabelValues(direction, command).Inc()
}

func IncError(stage, kind string) {
	errorsTotal.WithLabelValues(stage, kind).Inc()
}

func ObserveRequest(command string, d time.Duration) {
	requestDurationSec.WithLabelValues(command).Observe(d.Seconds())
}

func ObserveWriteLatency(connector string, d time.Duration) {
	writeLatencySec.WithLabelValues(connector).Observe(d.Seconds())
}

func SetSessionState(v float64) {
	sessionState.Set(v)
}
