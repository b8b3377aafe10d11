package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/NeoTim/report2bq/internal/api"
	"github.com/NeoTim/report2bq/internal/audit"
	"github.com/NeoTim/report2bq/internal/config"
	"github.com/NeoTim/report2bq/internal/metrics"
	"github.com/NeoTim/report2bq/internal/scheduler"
)

// Build-time variables set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	exitSuccess       = 0
	exitRuntimeError  = 1
	exitInvalidConfig = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitRuntimeError)
	}

	cmd := os.Args[1]

	switch cmd {
	case "serve":
		os.Exit(runServe())
	case "validate":
		os.Exit(runValidate())
	case "config":
		os.Exit(runConfig())
	case "version":
		os.Exit(runVersion())
	case "--help", "-h", "help":
		printUsage()
		os.Exit(exitSuccess)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(exitRuntimeError)
	}
}

func printUsage() {
	fmt.Println(`report2bq - Cloud Scheduler administration for the reporting pipeline

Usage:
  report2bq <command>

Commands:
  serve      Start the HTTP admin service
  validate   Validate configuration (no connections made)
  config     Print effective configuration as JSON (secrets masked)
  version    Print version information

Environment Variables:
  PROJECT_ID                GCP project hosting the scheduler jobs (required)
  LOCATION_ID               Scheduler location; resolved from the project when unset
  HTTP_ADDR                 HTTP server address (default: ":8080", falls back to PORT)
  REDIS_ADDR                Redis address for the audit trail (optional)
  SCHEDULER_ENDPOINT        Cloud Scheduler endpoint override for emulators (optional)

  REMOTE_CALL_TIMEOUT       Per-call timeout for the scheduler API (default: "30s")
  HTTP_SHUTDOWN_TIMEOUT     Graceful HTTP shutdown timeout (default: "10s")
  AUDIT_RETENTION           Audit trail retention (default: "720h")

  METRICS_ENABLED           Enable Prometheus metrics (default: "false")
  METRICS_PATH              Metrics endpoint path (default: "/metrics")
  METRICS_PORT              Metrics server port (default: "9090")

  VERIFY_TOPICS             Check target Pub/Sub topics before creating jobs (default: "false")`)
}

// logConfigWarnings surfaces configuration combinations worth knowing about
// before traffic arrives.
func logConfigWarnings(cfg config.Config) {
	if cfg.RedisAddr == "" {
		log.Println("report2bq: WARNING [P1]: REDIS_ADDR not set; administrative changes will not be audited")
	}
	if !cfg.MetricsEnabled {
		log.Println("report2bq: WARNING [P1]: METRICS_ENABLED=false; remote call failures will only appear in logs")
	}
	if cfg.LocationID == "" {
		log.Println("report2bq: INFO: LOCATION_ID not set; the last location listed for the project will be used")
	}
	if cfg.SchedulerEndpoint != "" {
		log.Printf("report2bq: INFO: SCHEDULER_ENDPOINT=%s; calls bypass the production API", cfg.SchedulerEndpoint)
	}
	if !cfg.VerifyTopics {
		log.Println("report2bq: INFO: VERIFY_TOPICS=false; jobs may be created against missing topics")
	}
}

func runServe() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitInvalidConfig
	}

	logConfigWarnings(cfg)

	ctx := context.Background()

	// Initialize metrics sink (optional)
	var metricsSink *metrics.PrometheusSink
	var metricsServer *http.Server

	if cfg.MetricsEnabled {
		metricsSink = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
		log.Printf("report2bq: metrics enabled (port=%s, path=%s)", cfg.MetricsPort, cfg.MetricsPath)

		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.MetricsPath, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    ":" + cfg.MetricsPort,
			Handler: metricsMux,
		}
		go func() {
			log.Printf("report2bq: metrics server listening on :%s", cfg.MetricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("report2bq: metrics server error: %v", err)
			}
		}()
	}

	// Endpoint override is only useful against emulators; production runs
	// on Application Default Credentials.
	var schedOpts []option.ClientOption
	if cfg.SchedulerEndpoint != "" {
		schedOpts = append(schedOpts,
			option.WithEndpoint(cfg.SchedulerEndpoint),
			option.WithoutAuthentication(),
		)
	}

	sched, err := scheduler.New(ctx, scheduler.Config{
		Project:     cfg.ProjectID,
		Location:    cfg.LocationID,
		CallTimeout: cfg.RemoteCallTimeout,
	}, schedOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build scheduler client: %v\n", err)
		return exitRuntimeError
	}
	if metricsSink != nil {
		sched = sched.WithMetrics(metricsSink)
	}

	var pubsubClient *pubsub.Client
	if cfg.VerifyTopics {
		pubsubClient, err = pubsub.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build pubsub client: %v\n", err)
			return exitRuntimeError
		}
		defer pubsubClient.Close()
		sched = sched.WithTopicChecker(scheduler.NewPubsubTopicChecker(pubsubClient))
		log.Println("report2bq: topic verification enabled")
	}

	apiHandler := api.NewHandler(sched, cfg.ProjectID)
	if metricsSink != nil {
		apiHandler = apiHandler.WithMetrics(metricsSink)
	}

	// Wire the audit trail if Redis is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer redisClient.Close()
		apiHandler = apiHandler.
			WithAudit(audit.NewRedisTrail(redisClient, cfg.AuditRetention)).
			WithHealthPinger(redisPinger{client: redisClient})
		log.Printf("report2bq: audit trail enabled (redis=%s, retention=%s)", cfg.RedisAddr, cfg.AuditRetentionStr)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiHandler,
	}

	go func() {
		log.Printf("report2bq: http server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("report2bq: http server error: %v", err)
		}
	}()

	log.Printf("report2bq: started (project=%s, http=%s)", cfg.ProjectID, cfg.HTTPAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	log.Printf("report2bq: received signal %v, shutting down", received)

	// Phase 1: Stop HTTP server with graceful shutdown
	log.Println("report2bq: stopping http server...")
	httpShutdownCtx, httpShutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer httpShutdownCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		log.Printf("report2bq: http server shutdown error: %v", err)
	}
	log.Println("report2bq: http server stopped")

	// Phase 2: Stop metrics server if running (with same timeout)
	if metricsServer != nil {
		log.Println("report2bq: stopping metrics server...")
		metricsShutdownCtx, metricsShutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer metricsShutdownCancel()
		if err := metricsServer.Shutdown(metricsShutdownCtx); err != nil {
			log.Printf("report2bq: metrics server shutdown error: %v", err)
		}
		log.Println("report2bq: metrics server stopped")
	}

	log.Println("report2bq: stopped")
	return exitSuccess
}

// redisPinger adapts the Redis client to the api.HealthPinger interface.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func runValidate() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitInvalidConfig
	}

	fmt.Println("configuration valid")
	return exitSuccess
}

func runConfig() int {
	cfg := config.Load()

	data, err := cfg.MaskedJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal config: %v\n", err)
		return exitRuntimeError
	}

	fmt.Println(string(data))
	return exitSuccess
}

func runVersion() int {
	fmt.Printf("report2bq version %s (commit: %s)\n", version, commit)
	return exitSuccess
}
