// Package lodestone bootstraps mod discovery for a game host
// process: it reads the game's mod configuration, scans the
// configured mod folders and publishes the resulting registry to the
// host's loading runtime.
package lodestone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-logr/logr"
	"github.com/robinbraemer/event"

	"go.lodestone.dev/lodestone/pkg/loader"
	"go.lodestone.dev/lodestone/pkg/lodestone/config"
	"go.lodestone.dev/lodestone/pkg/modconfig"
	"go.lodestone.dev/lodestone/pkg/mods/resolve"
	"go.lodestone.dev/lodestone/pkg/mods/scan"
	"go.lodestone.dev/lodestone/pkg/runtime/process"
	"go.lodestone.dev/lodestone/pkg/telemetry"
	"go.lodestone.dev/lodestone/pkg/util/envexpand"
	"go.lodestone.dev/lodestone/pkg/util/errs"
)

// defaultModsConfigName is the mod configuration file searched for
// inside the user data folder when no explicit path is configured.
const defaultModsConfigName = "mods.ini"

// Options are Lodestone options.
type Options struct {
	// Config is the bootstrap configuration.
	// If nil, config.DefaultConfig is used.
	Config *config.Config
	// EventMgr is the event manager to use.
	// If nil, a new one is created.
	EventMgr event.Manager
	// GameArgs are the process arguments of the host, searched for
	// the -userDataFolder=<path> override.
	// If nil, os.Args[1:] is used.
	GameArgs []string
	// ModsReader overrides how the mod configuration is read.
	// If nil, the configured INI file is read.
	ModsReader modconfig.Reader
}

// New returns a new Lodestone instance from validated options.
func New(options Options) (*Lodestone, error) {
	cfg := options.Config
	if cfg == nil {
		defaults := config.DefaultConfig
		cfg = &defaults
	}
	if _, cfgErrs := cfg.Validate(); len(cfgErrs) != 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(cfgErrs...))
	}

	args := options.GameArgs
	if args == nil {
		args = os.Args[1:]
	}
	userData, err := UserDataFolder(cfg, args)
	if err != nil {
		return nil, err
	}

	mgr := options.EventMgr
	if mgr == nil {
		mgr = event.New()
	}

	l := &Lodestone{
		cfg:      cfg,
		event:    mgr,
		userData: userData,
		loader: loader.New(loader.Options{
			EventMgr: mgr,
			Resolve: resolve.Options{
				Ext:      cfg.BinaryExt,
				MaxDepth: cfg.SearchDepth,
			},
			CacheTTL: cfg.ResolveCacheTTL,
		}),
	}
	l.reader = options.ModsReader
	if l.reader == nil {
		l.reader = modconfig.NewFileReader(l.ModsConfigPath())
	}
	return l, nil
}

// Lodestone manages the mod discovery pipeline of a host process.
type Lodestone struct {
	cfg      *config.Config
	event    event.Manager
	loader   *loader.Loader
	reader   modconfig.Reader
	userData string

	mu           sync.Mutex
	sectionsHash []byte
}

// Loader returns the host loading boundary.
func (l *Lodestone) Loader() *loader.Loader { return l.loader }

// Event returns the event manager of the mod pipeline.
func (l *Lodestone) Event() event.Manager { return l.event }

// Config returns the bootstrap configuration.
func (l *Lodestone) Config() *config.Config { return l.cfg }

// UserData returns the resolved user data folder of the game.
func (l *Lodestone) UserData() string { return l.userData }

// ModsConfigPath returns the path of the game's mod configuration
// file.
func (l *Lodestone) ModsConfigPath() string {
	if l.cfg.ModsConfig != "" {
		return l.cfg.ModsConfig
	}
	return filepath.Join(l.userData, defaultModsConfigName)
}

// ResolveDependency asks the mod pipeline for the binary satisfying
// an assembly-style display name. Absence is not an error.
func (l *Lodestone) ResolveDependency(ctx context.Context, name string) (string, bool) {
	return l.loader.ResolveDependency(ctx, name)
}

// Bootstrap reads the mod configuration, scans every configured
// directory spec and attaches the registry to the host.
//
// A missing configuration skips the mod load, the host keeps running
// without mods. Any unexpected failure abandons the whole mod load
// and is returned for the host to log, never to die on.
func (l *Lodestone) Bootstrap(ctx context.Context) (err error) {
	log := logr.FromContextOrDiscard(ctx).WithName("bootstrap")
	ctx = logr.NewContext(ctx, log)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mod load abandoned: %v", r)
		}
	}()

	sections, err := l.reader.Read(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrMissingConfig) {
			log.Info("no mod configuration, skipping mod load", "path", l.ModsConfigPath())
			return nil
		}
		return fmt.Errorf("error reading mod configuration: %w", err)
	}
	l.rememberSections(sections)

	primary, ok := sections.Find(scan.PrimarySection)
	if !ok {
		log.Info("mod configuration has no primary section, skipping mod load",
			"section", scan.PrimarySection)
		return nil
	}

	toScan := []*modconfig.Section{primary}
	if extra, _ := primary.Value(scan.KeyExtraFolders); modconfig.Truthy(extra) {
		toScan = append(toScan, sections.WithPrefix(scan.FolderSectionPrefix)...)
	}

	lookup := l.lookup()
	scanner := scan.NewScanner(l.loader.Registry(), scan.Options{Marker: l.cfg.Marker})
	for _, section := range toScan {
		spec, err := scan.ResolveSpec(ctx, section, lookup)
		if err != nil {
			if errors.Is(err, scan.ErrNoBaseDir) {
				log.Info("section has no baseDir, skipping", "section", section.Name())
				continue
			}
			return fmt.Errorf("error resolving directory spec %q: %w", section.Name(), err)
		}

		start := time.Now()
		ds, err := scanner.Scan(ctx, spec)
		if err != nil {
			return fmt.Errorf("error scanning mod folder %q: %w", spec.BaseDir, err)
		}
		l.loader.SpecCompleted(ctx, &loader.ScanCompletedEvent{
			Section:    section.Name(),
			BaseDir:    spec.BaseDir,
			Registered: len(ds),
			Duration:   time.Since(start),
		})
	}

	l.loader.Attach(ctx)
	return nil
}

// lookup is the placeholder context of the mod configuration:
// %UserDataFolder% resolves to the user data folder, everything else
// falls through to the process environment.
func (l *Lodestone) lookup() envexpand.Lookup {
	return envexpand.Chain(
		envexpand.Map(map[string]string{userDataArg: l.userData}),
		envexpand.OS(),
	)
}

// Start runs the background services of Lodestone until ctx is
// cancelled. Mod discovery itself happens in Bootstrap.
func (l *Lodestone) Start(ctx context.Context) error {
	log := logr.FromContextOrDiscard(ctx)
	if l.cfg.Debug {
		log.V(1).Info("effective configuration", "config", spew.Sdump(l.cfg))
	}

	tel, stopTelemetry, err := telemetry.New(ctx, l.cfg.Telemetry)
	if err != nil {
		return err
	}
	defer stopTelemetry()
	tel.InstrumentLoader(l)

	coll := process.New(setupAPI(l.cfg, l.event, l.loader))
	if l.cfg.Watch {
		_ = coll.Add(l.watchConfig())
	}
	return coll.Start(ctx)
}
