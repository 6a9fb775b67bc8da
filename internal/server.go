package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/config"
	"github.com/2beens/fitnesstracker/internal/dashboard"
	"github.com/2beens/fitnesstracker/internal/db"
	"github.com/2beens/fitnesstracker/internal/fitness"
	"github.com/2beens/fitnesstracker/internal/middleware"
	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"
)

const (
	streamPath            = "/api/fitness/stream"
	devLoginRouteName     = "auth-dev-login"
	devLoginLimitPerMin   = 10
	maxRequestBodyBytes   = 1 << 20
	shutdownMaxWaitPeriod = 15 * time.Second
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	// exactly one of dbPool and sqlDB is set, depending on the storage driver
	dbPool *pgxpool.Pool
	sqlDB  *sql.DB

	fitnessService *fitness.Service
	flushInterval  time.Duration

	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter
	sessions    *auth.SessionService
	revocations *auth.RevocationStore
	devIssuer   *auth.DevIssuer

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	JWTSecret               string
	DevAdminUsername        string
	DevAdminPasswordHash    string
	RedisPassword           string
	DBPassword              string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	flushInterval, err := cfg.FlushIntervalDuration()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:        cfg,
		versionInfo:   params.VersionInfo,
		flushInterval: flushInterval,
	}

	var extraCollectors []prometheus.Collector
	switch cfg.StorageDriver {
	case config.StorageDriverSqlite:
		s.sqlDB, err = db.NewSqliteDB(ctx, cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("new sqlite db: %w", err)
		}
		log.Debugf("using sqlite storage: %s", cfg.SqlitePath)
	default:
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.DBPassword,
			MaxConns:       cfg.PostgresMaxConns,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("fitness", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.sqlDB != nil {
		s.fitnessService = fitness.NewService(fitness.NewSqliteRepo(s.sqlDB), loc, s.metricsManager)
	} else {
		s.fitnessService = fitness.NewService(fitness.NewRepo(s.dbPool), loc, s.metricsManager)
	}

	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})
	rdbStatus := s.redisClient.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}
	s.rateLimiter = redis_rate.NewLimiter(s.redisClient)

	s.otelShutdown, err = tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitness-backend", s.redisClient)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}
	s.setupAuth(params, tracedHttpClient)

	return s, nil
}

func (s *Server) setupAuth(params NewServerParams, httpClient *http.Client) {
	cfg := s.config
	s.revocations = auth.NewRevocationStore(s.redisClient)
	s.sessions = auth.NewSessionService(
		auth.NewTokenVerifier(params.JWTSecret, cfg.AuthIssuer, cfg.AuthAudience),
		auth.NewProfileFetcher(cfg.AuthIssuer, httpClient),
		s.revocations,
		s.metricsManager,
	)

	if !cfg.DevLoginEnabled {
		return
	}
	if params.DevAdminUsername == "" || params.DevAdminPasswordHash == "" {
		log.Warnln("dev login enabled, but dev admin credentials not set")
		return
	}
	s.devIssuer = auth.NewDevIssuer(
		&auth.Admin{
			Username:     params.DevAdminUsername,
			PasswordHash: params.DevAdminPasswordHash,
		},
		params.JWTSecret,
		cfg.AuthIssuer,
		cfg.AuthAudience,
		auth.DefaultDevTokenTTL,
	)
	log.Warnln("dev login enabled")
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	// the otelmux writer cannot be hijacked, so websocket upgrades stay untraced here
	r.Use(otelmux.Middleware("fitness-router", otelmux.WithFilter(func(req *http.Request) bool {
		return req.URL.Path != streamPath
	})))

	apiRouter := r.PathPrefix("/api").Subrouter()

	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(s.devLoginRateLimit())
	auth.NewHandler(s.sessions, s.revocations, s.devIssuer).SetupRoutes(authRouter)

	streamHandler := fitness.NewStreamHandler(
		fitness.NewRecordFlusher(s.fitnessService),
		s.flushInterval,
		s.metricsManager,
	)
	fitnessHandler := fitness.NewHandler(s.fitnessService, streamHandler)
	fitnessHandler.SetupRoutes(
		apiRouter.PathPrefix("/fitness").Subrouter(),
		s.rateLimiter,
		s.config.TrackRateLimitMin,
		s.metricsManager,
	)

	dashboardHandler := dashboard.NewHandler(s.fitnessService)
	dashboardHandler.SetupRoutes(r.PathPrefix("/dashboard").Subrouter())

	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessions, s.config.LoginURL)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestBody(maxRequestBodyBytes))

	return r
}

// devLoginRateLimit only limits the dev login route of the auth router.
func (s *Server) devLoginRateLimit() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		limited := middleware.RateLimit(s.rateLimiter, "auth-dev-login", devLoginLimitPerMin, s.metricsManager)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if route := mux.CurrentRoute(r); route != nil && route.GetName() == devLoginRouteName {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	version := s.versionInfo
	if version == "" {
		version = "dev"
	}
	pkg.WriteTextResponseOK(w, version)
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownMaxWaitPeriod)
	defer timeoutCancel()

	// stream connections are hijacked, their trackers flush on their own once closed
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close()
		log.Debugln("db pool closed")
	}
	if s.sqlDB != nil {
		if err := s.sqlDB.Close(); err != nil {
			log.Errorf("failed to close sqlite db: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
