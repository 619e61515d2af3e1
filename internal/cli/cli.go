package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Luxbin-labs/luxbin-chain/pkg/buildinfo"
	"github.com/Luxbin-labs/luxbin-chain/pkg/cache"
	"github.com/Luxbin-labs/luxbin-chain/pkg/config"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider"
	"github.com/Luxbin-labs/luxbin-chain/pkg/core/provider/simulator"
	"github.com/Luxbin-labs/luxbin-chain/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "luxbin"

	// configFile is looked up in the config directory when --config is unset.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	seed       uint64
	storeKind  string
	noCache    bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Luxbin runs the NV-center entanglement invitation protocol",
		Long: `Luxbin establishes heralded entanglement between simulated nitrogen-vacancy
center nodes (` + entanglement.ProtocolVersion + `), extends it across multi-hop chains, and
generates Bell pairs on gate-model quantum providers.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default ~/.config/luxbin/config.toml)")
	flags.Uint64Var(&c.seed, "seed", 0, "seed the protocol and simulator for reproducible runs")
	flags.StringVar(&c.storeKind, "store", "", "session store: memory, file, redis or mongo")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the backend cache")

	root.AddCommand(c.entangleCommand())
	root.AddCommand(c.extendCommand())
	root.AddCommand(c.circuitCommand())
	root.AddCommand(c.bellCommand())
	root.AddCommand(c.ghzCommand())
	root.AddCommand(c.teleportCommand())
	root.AddCommand(c.backendsCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the configuration: defaults, then the file, then the
// environment, then command-line flags.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		if p, err := defaultConfigPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Protocol.Seed = c.seed
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.Kind = c.storeKind
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg
	c.Logger.Debug("configuration loaded", "path", path, "store", cfg.Store.Kind, "dd", cfg.Protocol.DDSequence)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newProvider builds the simulator described by the provider section,
// wrapped with a backend cache.
func (c *CLI) newProvider(bc cache.Cache) (provider.Provider, error) {
	backend := simulator.DefaultBackend()
	backend.Name = c.cfg.Provider.Backend
	backend.NumQubits = c.cfg.Provider.MaxQubits

	opts := []simulator.Option{
		simulator.WithBackends(backend),
		simulator.WithReadoutError(c.cfg.Provider.ReadoutError),
		simulator.WithLogger(c.Logger),
	}
	if seed := c.cfg.Protocol.Seed; seed != 0 {
		opts = append(opts, simulator.WithSeed(seed))
	}
	sim, err := simulator.New(opts...)
	if err != nil {
		return nil, err
	}

	cached := provider.NewCached(sim, bc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName), c.Logger)
	cached.TTL = c.cfg.Provider.CacheTTL.Duration
	return cached, nil
}

// newProtocol builds the engine, recording into rec when it is non-nil.
func (c *CLI) newProtocol(prov provider.Provider, rec entanglement.Recorder) (*entanglement.Protocol, error) {
	opts := []entanglement.Option{
		entanglement.WithLogger(c.Logger),
		entanglement.WithEmissionJitter(c.cfg.Protocol.EmissionJitterNS),
		entanglement.WithHooks(newLogHooks(c.Logger)),
	}
	if seed := c.cfg.Protocol.Seed; seed != 0 {
		opts = append(opts, entanglement.WithSource(entanglement.NewSource(seed)))
	}
	if rec != nil {
		opts = append(opts, entanglement.WithRecorder(rec))
	}
	if c.cfg.Protocol.Telemetry && prov != nil {
		opts = append(opts, entanglement.WithProvider(prov, c.cfg.Provider.Backend, c.cfg.Provider.Shots))
	}
	return entanglement.NewProtocol(c.cfg.Entanglement(), opts...)
}

// openStore opens the configured session store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg.Store, c.Logger)
}

// newNode creates a node with the configured physical parameters.
func (c *CLI) newNode(id string) *entanglement.Node {
	return entanglement.NewNode(id, c.cfg.NodeOptions()...)
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/luxbin/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultConfigPath returns ~/.config/luxbin/config.toml, honoring XDG_CONFIG_HOME.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFile), nil
}
