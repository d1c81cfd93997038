package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/willibrandon/nudll/cmd/nudll/cli"
	"github.com/willibrandon/nudll/cmd/nudll/config"
	"github.com/willibrandon/nudll/cmd/nudll/output"
	nugethttp "github.com/willibrandon/nudll/http"
	"github.com/willibrandon/nudll/observability"
	"github.com/willibrandon/nudll/packaging"
	v3 "github.com/willibrandon/nudll/protocol/v3"
	"github.com/willibrandon/nudll/resolver"
)

// DownloadOptions holds the flags of the download (root) command.
type DownloadOptions struct {
	Source       string
	Framework    string
	Output       string
	MaxDepth     int
	Timeout      time.Duration
	MaxRetries   int
	HTTP3        bool
	Verbosity    string
	Trace        string
	OTLPEndpoint string
	MetricsFile  string

	// LogWriter receives structured logs. Nil means stderr.
	LogWriter io.Writer
}

// DownloadSummary describes a finished run.
type DownloadSummary struct {
	RunID     string
	OutputDir string
	Result    *resolver.WalkResult
}

// BindDownload attaches the download flags and action to root.
func BindDownload(root *cobra.Command, console *output.Console) *DownloadOptions {
	opts := &DownloadOptions{}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		versionArg := ""
		if len(args) > 1 {
			versionArg = args[1]
		}
		_, err := RunDownload(cmd.Context(), console, opts, args[0], versionArg)
		return err
	}

	flags := root.Flags()
	flags.StringVarP(&opts.Source, "source", "s", config.EnvOrDefault(config.EnvSource, config.DefaultSource),
		"Service index URL of the package feed (env "+config.EnvSource+")")
	flags.StringVarP(&opts.Framework, "framework", "f", config.EnvOrDefault(config.EnvFramework, config.DefaultFramework),
		"Target framework moniker to take binaries and dependencies for (env "+config.EnvFramework+")")
	flags.StringVarP(&opts.Output, "output", "o", config.EnvOrDefault(config.EnvOutput, ""),
		"Output folder (default <exe dir>/downloads/<id>/<version>, env "+config.EnvOutput+")")
	flags.IntVar(&opts.MaxDepth, "max-depth", resolver.DefaultMaxDepth, "Maximum dependency chain length")
	flags.DurationVar(&opts.Timeout, "timeout", nugethttp.DefaultTimeout, "Timeout per HTTP request")
	flags.IntVar(&opts.MaxRetries, "max-retries", nugethttp.DefaultMaxRetries, "Retries for metadata requests")
	flags.BoolVar(&opts.HTTP3, "http3", false, "Try HTTP/3 first (experimental)")
	flags.StringVar(&opts.Verbosity, "verbosity", "normal", "Verbosity level: quiet, normal, detailed or diagnostic")
	flags.StringVar(&opts.Trace, "trace", observability.ExporterNone, "Trace exporter: none, stdout or otlp")
	flags.StringVar(&opts.OTLPEndpoint, "otlp-endpoint", "localhost:4317", "OTLP gRPC collector endpoint")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	return opts
}

// RunDownload resolves packageID at versionArg, then downloads and extracts
// it and its dependency closure into the output folder.
func RunDownload(ctx context.Context, console *output.Console, opts *DownloadOptions, packageID, versionArg string) (*DownloadSummary, error) {
	verbosity, err := output.ParseVerbosity(opts.Verbosity)
	if err != nil {
		return nil, err
	}
	console.SetVerbosity(verbosity)

	runID := uuid.NewString()
	logWriter := opts.LogWriter
	if logWriter == nil {
		logWriter = os.Stderr
	}
	logger := observability.NewLogger(logWriter, logLevel(verbosity)).ForContext("RunId", runID)

	if opts.MetricsFile != "" {
		defer func() {
			if werr := observability.WriteMetricsFile(opts.MetricsFile); werr != nil {
				console.Warning("could not write metrics file: %v", werr)
			}
		}()
	}

	tracing := opts.Trace != "" && opts.Trace != observability.ExporterNone
	if tracing {
		tp, err := observability.SetupTracing(ctx, observability.TracerConfig{
			ServiceName:    "nudll",
			ServiceVersion: cli.GetVersion(),
			ExporterType:   opts.Trace,
			OTLPEndpoint:   opts.OTLPEndpoint,
		})
		if err != nil {
			return nil, err
		}
		defer func() {
			if serr := observability.ShutdownTracing(context.WithoutCancel(ctx), tp); serr != nil {
				logger.Warn("Tracing shutdown failed: {Error}", serr)
			}
		}()
	}

	client := nugethttp.NewClientWithOptions(
		nugethttp.WithTimeout(opts.Timeout),
		nugethttp.WithMaxRetries(opts.MaxRetries),
		nugethttp.WithLogger(logger),
		nugethttp.WithTracing(tracing),
		nugethttp.WithHTTP3(opts.HTTP3),
	)
	defer func() { _ = client.Close() }()

	outputDir := opts.Output
	if outputDir == "" {
		if outputDir, err = config.DefaultOutputDir(packageID, versionArg); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	registrationsURL, err := v3.NewServiceIndexClient(client).DiscoverRegistrationsURL(ctx, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("discover registrations: %w", err)
	}
	logger.Debug("Registrations base URL {URL}", registrationsURL)

	tempDir, err := os.MkdirTemp("", "nudll-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tempDir); rerr != nil {
			logger.Warn("Could not remove {TempDir}: {Error}", tempDir, rerr)
		}
	}()

	console.Detail("Source: %s", opts.Source)
	console.Detail("Framework: %s", opts.Framework)
	console.Detail("Output: %s", outputDir)

	walker := resolver.NewWalker(resolver.WalkerConfig{
		RegistrationsURL: registrationsURL,
		Framework:        opts.Framework,
		TempDir:          tempDir,
		OutputDir:        outputDir,
		MaxDepth:         opts.MaxDepth,
		Out:              console.Progress(),
		Logger:           logger,
	},
		v3.NewRegistrationClient(client, logger),
		v3.NewDownloadClient(client, logger),
		packaging.NewExtractor(opts.Framework, logger),
	)

	start := time.Now()
	result, err := walker.Walk(ctx, packageID, versionArg)
	if err != nil {
		return nil, err
	}

	console.Success("Copied %d binaries from %d packages to %s in %s",
		len(result.Files), len(result.Packages), outputDir, time.Since(start).Round(time.Millisecond))

	return &DownloadSummary{RunID: runID, OutputDir: outputDir, Result: result}, nil
}

func logLevel(v output.Verbosity) observability.LogLevel {
	switch v {
	case output.VerbosityQuiet:
		return observability.ErrorLevel
	case output.VerbosityDetailed:
		return observability.InfoLevel
	case output.VerbosityDiagnostic:
		return observability.DebugLevel
	default:
		return observability.WarnLevel
	}
}
