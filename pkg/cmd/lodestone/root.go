// Package lodestone implements the lodestone command line interface.
package lodestone

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"go.lodestone.dev/lodestone/pkg/lodestone"
	"go.lodestone.dev/lodestone/pkg/lodestone/config"
	"go.lodestone.dev/lodestone/pkg/util/interrupt"
	"go.lodestone.dev/lodestone/pkg/version"
)

// App returns the root command of the lodestone CLI.
func App() *cli.App {
	// -v is taken by verbosity, version moves to -V per Unix
	// convention.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	return &cli.App{
		Name:    "lodestone",
		Usage:   "Mod discovery and dependency resolution for game hosts",
		Version: version.String(),
		Description: `Lodestone reads the game's mod configuration, scans the
configured mod folders and serves dependency lookups to the
host process.

Running without a subcommand starts the full pipeline and keeps
the background services running until interrupted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path of the bootstrap config file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "Log verbosity, higher logs more",
			},
		},
		Commands: []*cli.Command{
			configCommand(),
			modsCommand(),
			resolveCommand(),
		},
		Action: serve,
	}
}

// Execute runs the lodestone command line.
func Execute() {
	if err := App().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	log, err := newLogger(c.Bool("debug"), c.Int("verbosity"))
	if err != nil {
		return cli.Exit(fmt.Errorf("error creating logger: %w", err), 1)
	}
	ctx := logr.NewContext(c.Context, log)
	ctx, cancel := interrupt.TerminationContext(ctx)
	defer cancel()

	cfg, err := loadConfig(c, log)
	if err != nil {
		return cli.Exit(err, 1)
	}

	l, err := lodestone.New(lodestone.Options{Config: cfg})
	if err != nil {
		return cli.Exit(err, 1)
	}
	log.Info("starting mod pipeline",
		"version", version.String(),
		"userData", l.UserData(),
		"modsConfig", l.ModsConfigPath(),
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return l.Start(ctx) })
	if err = l.Bootstrap(ctx); err != nil {
		// The host keeps running, just without mods.
		log.Error(err, "mod load abandoned, continuing without mods")
	} else {
		log.Info("mods attached", "mods", l.Loader().Registry().Len())
	}
	return eg.Wait()
}

func newLogger(debug bool, verbosity int) (logr.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if verbosity > 0 {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}

// loadConfig reads the bootstrap config honoring the --config flag,
// the working directory and LODESTONE_* environment variables.
func loadConfig(c *cli.Context, log logr.Logger) (*config.Config, error) {
	v := viper.New()
	if c.IsSet("config") {
		v.SetConfigFile(c.String("config"))
	} else {
		v.SetConfigName("lodestone")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("LODESTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := lodestone.LoadConfig(v)
	if err != nil {
		return nil, err
	}

	warns, errs := cfg.Validate()
	for _, w := range warns {
		log.Info("config warning", "warn", w.Error())
	}
	for _, e := range errs {
		log.Info("config error", "error", e.Error())
	}
	if len(errs) != 0 {
		return nil, fmt.Errorf("found %d config error(s)", len(errs))
	}

	if c.Bool("debug") {
		cfg.Debug = true
	}
	return cfg, nil
}

// runPipeline bootstraps the pipeline once for the inspection
// subcommands. They stay quiet unless --debug is set.
func runPipeline(c *cli.Context) (*lodestone.Lodestone, context.Context, error) {
	log := logr.Discard()
	if c.Bool("debug") {
		var err error
		if log, err = newLogger(true, c.Int("verbosity")); err != nil {
			return nil, nil, err
		}
	}
	ctx := logr.NewContext(c.Context, log)

	cfg, err := loadConfig(c, log)
	if err != nil {
		return nil, nil, err
	}
	l, err := lodestone.New(lodestone.Options{Config: cfg})
	if err != nil {
		return nil, nil, err
	}
	if err = l.Bootstrap(ctx); err != nil {
		return nil, nil, err
	}
	return l, ctx, nil
}
