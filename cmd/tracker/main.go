package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/fitnesstracker/internal/logging"
	"github.com/2beens/fitnesstracker/internal/tracker"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const userAgent = "fitness-tracker-cli/1"

type globalOptions struct {
	serverURL string
	token     string
	interval  time.Duration
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Feeds motion samples through a step tracker and persists the session",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    opts.logLevel,
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:9000", "fitness service base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("FITNESS_TOKEN"), "identity token (defaults to FITNESS_TOKEN)")
	root.PersistentFlags().DurationVar(&opts.interval, "interval", tracker.DefaultFlushInterval, "flush interval")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")

	root.AddCommand(newReplayCmd(opts))
	root.AddCommand(newSimulateCmd(opts))
	root.AddCommand(newHashPasswordCmd())
	return root
}

func newReplayCmd(opts *globalOptions) *cobra.Command {
	var (
		filePath   string
		sampleRate time.Duration
		realtime   bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded samples from a CSV file (x,y,z[,offset_ms])",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open samples file: %w", err)
			}
			defer f.Close()

			samples, err := tracker.ReadSamples(f, sampleRate)
			if err != nil {
				return fmt.Errorf("read samples: %w", err)
			}

			stats := &flushStats{}
			final := run(cmd.Context(), newTracker(opts, stats), samples, time.Now(), realtime)
			printSession(cmd, final)
			return stats.err()
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "samples CSV file")
	cmd.Flags().DurationVar(&sampleRate, "sample-rate", 50*time.Millisecond, "spacing of rows without an offset")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "wait between samples as recorded")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSimulateCmd(opts *globalOptions) *cobra.Command {
	var (
		duration   time.Duration
		sampleRate time.Duration
		seed       int64
		realtime   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic walk/run and track it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples := simulateSamples(seed, duration, sampleRate)
			stats := &flushStats{}
			final := run(cmd.Context(), newTracker(opts, stats), samples, time.Now(), realtime)
			printSession(cmd, final)
			return stats.err()
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "simulated duration")
	cmd.Flags().DurationVar(&sampleRate, "sample-rate", 50*time.Millisecond, "time between samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for a random one")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "wait between samples")
	return cmd
}

// newHashPasswordCmd prints a bcrypt hash for FITNESS_DEV_ADMIN_PASSWORD_HASH.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a dev admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := pkg.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newTracker(opts *globalOptions, stats *flushStats) *tracker.Tracker {
	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: &userAgentTransport{next: otelhttp.NewTransport(http.DefaultTransport)},
	}
	flusher := tracker.NewHTTPFlusher(opts.serverURL, opts.token, httpClient)
	return tracker.NewTracker("cli", flusher,
		tracker.WithFlushInterval(opts.interval),
		tracker.WithFlushObserver(stats.observe),
	)
}

func printSession(cmd *cobra.Command, s tracker.Session) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(),
		"steps=%d distance=%.1fm calories=%.2fkcal activity=%s\n",
		s.Steps, s.DistanceMeters, s.Calories, s.ActivityType,
	)
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	return t.next.RoundTrip(req)
}
