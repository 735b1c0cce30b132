package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yourname/fileshare_lite/internal/config"
)

// serveOptions holds CLI overrides; only flags the user set are applied.
type serveOptions struct {
	configPath    string
	root          string
	port          int
	parallel      int
	publicURL     string
	cacheCapacity int
	logLevel      string
	logFormat     string
	noQR          bool
	noMetrics     bool
}

func newRootCmd() *cobra.Command {
	o := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "fileshare",
		Short:        "Share a directory on the local network with resumable and batch downloads",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, o)
		},
	}

	o.bind(cmd.Flags())
	cmd.AddCommand(newFetchCmd())
	return cmd
}

func (o *serveOptions) bind(f *pflag.FlagSet) {
	f.StringVarP(&o.configPath, "config", "c", "", "path to YAML config (default $CONFIG_PATH)")
	f.StringVarP(&o.root, "folder-path", "f", "", "root folder to serve (default: current directory)")
	f.IntVarP(&o.port, "port", "p", config.DefaultPort, "port to listen on, all interfaces")
	f.IntVar(&o.parallel, "parallel", config.DefaultParallel, "parallel-max written into batch configs")
	f.StringVar(&o.publicURL, "public-url", "", "base URL used in batch configs (default: http://<lan ip>:<port>)")
	f.IntVar(&o.cacheCapacity, "cache-capacity", config.DefaultCacheCapacity, "number of selections kept in memory")
	f.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&o.logFormat, "log-format", "json", "json or console")
	f.BoolVar(&o.noQR, "no-qr", false, "do not print a QR code of the server URL")
	f.BoolVar(&o.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
}

// apply переносит явно заданные флаги поверх YAML/ENV конфигурации.
func (o *serveOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("folder-path") {
		cfg.Root = o.root
	}
	if flags.Changed("port") {
		cfg.Port = o.port
	}
	if flags.Changed("parallel") {
		cfg.Parallel = o.parallel
	}
	if flags.Changed("public-url") {
		cfg.PublicURL = o.publicURL
	}
	if flags.Changed("cache-capacity") {
		cfg.CacheCapacity = o.cacheCapacity
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	if o.noQR {
		cfg.QR = false
	}
	if o.noMetrics {
		cfg.Metrics = false
	}
}
