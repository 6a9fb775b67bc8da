package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/2beens/fitnesstracker/internal"
	"github.com/2beens/fitnesstracker/internal/config"
	"github.com/2beens/fitnesstracker/internal/logging"
	"github.com/2beens/fitnesstracker/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fitness-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using storage driver: %s", cfg.StorageDriver)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	jwtSecret := os.Getenv("FITNESS_JWT_SECRET")
	if jwtSecret == "" {
		if !cfg.DevLoginEnabled {
			log.Fatalln("jwt secret not set. use FITNESS_JWT_SECRET")
		}
		// dev tokens then only live as long as the process
		jwtSecret, err = pkg.GenerateRandomString(32)
		if err != nil {
			log.Fatalf("generate dev jwt secret: %s", err)
		}
		log.Warnln("jwt secret not set, using a random one. use FITNESS_JWT_SECRET")
	}

	if cfg.StorageDriver == config.StorageDriverSqlite {
		sqliteDir := filepath.Dir(cfg.SqlitePath)
		dirExists, err := pkg.PathExists(sqliteDir, true)
		if err != nil {
			log.Fatalf("check sqlite dir: %s", err)
		}
		if !dirExists {
			if err := os.MkdirAll(sqliteDir, 0o755); err != nil {
				log.Fatalf("create sqlite dir: %s", err)
			}
			log.Printf("sqlite dir created: %s", sqliteDir)
		}
	}

	devAdminUsername := os.Getenv("FITNESS_DEV_ADMIN_USERNAME")
	devAdminPasswordHash := os.Getenv("FITNESS_DEV_ADMIN_PASSWORD_HASH")
	if cfg.DevLoginEnabled && (devAdminUsername == "" || devAdminPasswordHash == "") {
		log.Errorf("dev admin username and password not set. use FITNESS_DEV_ADMIN_USERNAME and FITNESS_DEV_ADMIN_PASSWORD_HASH")
	}

	redisPassword := os.Getenv("FITNESS_REDIS_PASS")
	if redisPassword == "" {
		log.Warnln("redis password not set. use FITNESS_REDIS_PASS")
	}

	dbPassword := os.Getenv("FITNESS_DB_PASS")
	if cfg.StorageDriver != config.StorageDriverSqlite && dbPassword == "" {
		log.Debugln("db password not set, connecting without one. use FITNESS_DB_PASS")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			JWTSecret:               jwtSecret,
			DevAdminUsername:        devAdminUsername,
			DevAdminPasswordHash:    devAdminPasswordHash,
			RedisPassword:           redisPassword,
			DBPassword:              dbPassword,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash assumes the binary runs from within the repo checkout.
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pkg.BytesToString(stdout)), nil
}
