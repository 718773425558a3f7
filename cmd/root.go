package cmd

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/metrics"
)

var (
	verbose     bool
	jsonOutput  bool
	logFile     string
	metricsAddr string
)

// Resources opened by the persistent pre-run and released after the command.
var (
	logCloser     io.Closer
	metricsServer *http.Server
)

var rootCmd = &cobra.Command{
	Use:   "sketch-ctl",
	Short: "Claude Sketch lifecycle CLI",
	Long: `sketch-ctl manages small terminal programs ("sketches") written into a
local catalog.

Each sketch is a Rust crate that:
  - Is created from source and a generated Cargo.toml
  - Is compiled with the configured toolchain
  - Runs in a pane, tab or window of the detected terminal
  - Is stopped by terminating the process handle kept for it`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.UserOut = cmd.OutOrStdout()
		logging.UserErr = cmd.ErrOrStderr()
		setupLogging(logFile)
		if metricsAddr != "" {
			return startMetrics(metricsAddr)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func Execute() error {
	defer shutdown()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to a size-rotated file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setupLogging configures the structured logger. Logs go to stderr, and
// to a rotating file as well when path is set.
func setupLogging(path string) {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	var w io.Writer = os.Stderr
	if path != "" {
		f := logging.RotatingFile(path)
		logCloser = f
		w = io.MultiWriter(os.Stderr, f)
	}
	logging.Setup(verbose, jsonOutput, w)
}

func startMetrics(addr string) error {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	metricsServer = srv

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Warn("metrics server stopped", "error", err)
		}
	}()
	logging.Debug("serving metrics", "addr", ln.Addr().String())
	return nil
}

func shutdown() {
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = metricsServer.Shutdown(ctx)
		cancel()
		metricsServer = nil
	}
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
