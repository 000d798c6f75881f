package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/filesystem"

	"github.com/youscentia/ydb-fsenv/vfs"
	"github.com/youscentia/ydb-fsenv/vfs/adapters"
	"github.com/youscentia/ydb-fsenv/vfs/checksum"
	"github.com/youscentia/ydb-fsenv/vfs/composite"
	"github.com/youscentia/ydb-fsenv/vfs/instrumented"
	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

type config struct {
	backend      string
	bucketDir    string
	bucketPrefix string
	logLevel     string
	metrics      bool
	checksum     string
}

// app holds what the subcommands share once flags are parsed.
type app struct {
	cfg    config
	logger log.Logger
	reg    *prometheus.Registry
	env    vfs.Env
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "envtool",
		Short:        "Read and write files through the composite storage environment",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.metrics {
				return nil
			}
			return dumpMetrics(cmd.ErrOrStderr(), a.reg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfg.backend, "backend", "os", "Storage backend: os or bucket.")
	flags.StringVar(&a.cfg.bucketDir, "bucket.dir", "", "Root directory of the file system bucket (bucket backend).")
	flags.StringVar(&a.cfg.bucketPrefix, "bucket.prefix", "", "Object name prefix inside the bucket (bucket backend).")
	flags.StringVar(&a.cfg.logLevel, "log.level", "info", "Log level: debug, info, warn or error.")
	flags.BoolVar(&a.cfg.metrics, "metrics", false, "Print storage metrics to stderr on exit.")
	flags.StringVar(&a.cfg.checksum, "checksum", "none", "Hand-off checksum verified on writes: none, crc32c, xxhash64 or xxh3.")

	cmd.AddCommand(
		newCatCmd(a),
		newCpCmd(a),
		newMultiReadCmd(a),
		newStatCmd(a),
		newLsCmd(a),
	)
	return cmd
}

func (a *app) setup(stderr io.Writer) error {
	logger, err := newLogger(stderr, a.cfg.logLevel)
	if err != nil {
		return err
	}
	a.logger = logger
	a.reg = prometheus.NewRegistry()

	handoff, err := checksum.Parse(a.cfg.checksum)
	if err != nil {
		return err
	}
	backend, err := a.newBackend(handoff)
	if err != nil {
		return err
	}
	a.env = composite.NewEnv(instrumented.New(backend,
		instrumented.WithLogger(logger),
		instrumented.WithRegisterer(a.reg),
	))
	level.Debug(logger).Log("msg", "environment ready", "backend", backend.Name(), "checksum", checksum.Name(handoff))
	return nil
}

func (a *app) newBackend(handoff checksum.Type) (storage.FileSystem, error) {
	opts := []adapters.Option{
		adapters.WithLogger(a.logger),
		adapters.WithHandoffChecksumType(handoff),
	}
	switch a.cfg.backend {
	case "os":
		return adapters.NewOSAdapter(opts...), nil
	case "bucket":
		if a.cfg.bucketDir == "" {
			return nil, errors.New("--bucket.dir is required with --backend=bucket")
		}
		fsBkt, err := filesystem.NewBucket(a.cfg.bucketDir)
		if err != nil {
			return nil, fmt.Errorf("open bucket: %w", err)
		}
		var bkt objstore.Bucket = objstore.WrapWithMetrics(fsBkt, a.reg, "envtool")
		if a.cfg.bucketPrefix != "" {
			bkt = objstore.NewPrefixedBucket(bkt, a.cfg.bucketPrefix)
		}
		return adapters.NewBucketAdapter(bkt, opts...), nil
	}
	return nil, fmt.Errorf("unknown backend %q", a.cfg.backend)
}

func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var allow level.Option
	switch lvl {
	case "debug":
		allow = level.AllowDebug()
	case "info":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
