// Package config loads runtime settings for the entanglement service.
//
// Settings are resolved in order: built-in defaults, an optional TOML file,
// then LUXBIN_* environment variables. Command-line flags are applied on top
// by the CLI.
//
// A minimal file:
//
//	[protocol]
//	target_fidelity = 0.92
//	dd_sequence = "KDD"
//
//	[store]
//	kind = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// Config is the full runtime configuration.
type Config struct {
	Protocol Protocol `toml:"protocol"`
	Node     Node     `toml:"node"`
	Provider Provider `toml:"provider"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// Protocol configures the entanglement engine.
type Protocol struct {
	TargetFidelity   float64 `toml:"target_fidelity"`
	MaxRetries       int     `toml:"max_retries"`
	DDSequence       string  `toml:"dd_sequence"`
	DDPulses         int     `toml:"dd_pulses"`
	Seed             uint64  `toml:"seed"` // 0 seeds from the clock
	EmissionJitterNS float64 `toml:"emission_jitter_ns"`
	Telemetry        bool    `toml:"telemetry"` // submit step-2 circuits to the provider
}

// Node holds the defaults applied to nodes created by the CLI and API.
type Node struct {
	Wavelength      float64 `toml:"wavelength_nm"`
	PumpWavelength  float64 `toml:"pump_wavelength_nm"`
	CoherenceTimeUS float64 `toml:"coherence_time_us"` // T2
}

// Provider configures the quantum backend.
type Provider struct {
	Backend      string   `toml:"backend"`
	Shots        int      `toml:"shots"`
	MaxQubits    int      `toml:"max_qubits"`
	ReadoutError float64  `toml:"readout_error"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

// Store selects where session history is persisted.
type Store struct {
	Kind            string `toml:"kind"`
	Path            string `toml:"path"`
	RedisAddr       string `toml:"redis_addr"`
	RedisKey        string `toml:"redis_key"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string such as "5m" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	proto := entanglement.DefaultConfig()
	return Config{
		Protocol: Protocol{
			TargetFidelity:   proto.TargetFidelity,
			MaxRetries:       proto.MaxRetries,
			DDSequence:       string(proto.DDSequence),
			DDPulses:         proto.DDPulses,
			EmissionJitterNS: entanglement.DefaultEmissionJitterNS,
		},
		Node: Node{
			Wavelength:      entanglement.DefaultWavelength,
			PumpWavelength:  entanglement.DefaultPumpWavelength,
			CoherenceTimeUS: float64(entanglement.DefaultT2 / time.Microsecond),
		},
		Provider: Provider{
			Backend:   "local_simulator",
			Shots:     1024,
			MaxQubits: 127,
			CacheTTL:  Duration{5 * time.Minute},
		},
		Store: Store{
			Kind:            StoreMemory,
			RedisKey:        "luxbin:sessions",
			MongoDatabase:   "luxbin",
			MongoCollection: "sessions",
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
	}
}

// Load reads the defaults, the TOML file at path (skipped when path is
// empty) and the environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Entanglement().Validate(); err != nil {
		return err
	}
	if err := errs.ValidateProbability("readout error", c.Provider.ReadoutError); err != nil {
		return err
	}
	if err := errs.ValidateMin("shots", c.Provider.Shots, 1); err != nil {
		return err
	}
	if err := errs.ValidateMin("max qubits", c.Provider.MaxQubits, 1); err != nil {
		return err
	}
	if err := errs.ValidatePositive("pump wavelength", c.Node.PumpWavelength); err != nil {
		return err
	}
	if err := errs.ValidatePositive("coherence time", c.Node.CoherenceTimeUS); err != nil {
		return err
	}
	if c.Protocol.EmissionJitterNS < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "emission jitter must be >= 0, got %v", c.Protocol.EmissionJitterNS)
	}
	kind, err := errs.ValidateOneOf(errs.ErrCodeInvalidConfig, "store kind", c.Store.Kind,
		StoreMemory, StoreFile, StoreRedis, StoreMongo)
	if err != nil {
		return err
	}
	switch {
	case kind == StoreRedis && c.Store.RedisAddr == "":
		return errs.New(errs.ErrCodeInvalidConfig, "redis store requires redis_addr")
	case kind == StoreMongo && c.Store.MongoURI == "":
		return errs.New(errs.ErrCodeInvalidConfig, "mongo store requires mongo_uri")
	}
	return nil
}

// Entanglement returns the engine parameters. The DD sequence name is
// matched case-insensitively; an unknown name is left as is for Validate to
// reject.
func (c Config) Entanglement() entanglement.Config {
	seq, err := entanglement.ParseDDSequence(c.Protocol.DDSequence)
	if err != nil {
		seq = entanglement.DDSequence(c.Protocol.DDSequence)
	}
	return entanglement.Config{
		TargetFidelity: c.Protocol.TargetFidelity,
		MaxRetries:     c.Protocol.MaxRetries,
		DDSequence:     seq,
		DDPulses:       c.Protocol.DDPulses,
		Wavelength:     c.Node.Wavelength,
	}
}

// NodeOptions returns the options that give new nodes the configured
// physical parameters.
func (c Config) NodeOptions() []entanglement.NodeOption {
	t2 := time.Duration(c.Node.CoherenceTimeUS * float64(time.Microsecond))
	return []entanglement.NodeOption{
		entanglement.WithWavelength(c.Node.Wavelength),
		entanglement.WithPumpWavelength(c.Node.PumpWavelength),
		entanglement.WithCoherence(entanglement.DefaultT1, t2),
	}
}

// =============================================================================
// Environment overrides
// =============================================================================

// ApplyEnv overrides fields from LUXBIN_* variables read through getenv.
// Empty variables are ignored; malformed ones are an INVALID_CONFIG error.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	e := envReader{getenv: getenv}
	e.float("LUXBIN_TARGET_FIDELITY", &c.Protocol.TargetFidelity)
	e.int("LUXBIN_MAX_RETRIES", &c.Protocol.MaxRetries)
	e.string("LUXBIN_DD_SEQUENCE", &c.Protocol.DDSequence)
	e.int("LUXBIN_DD_PULSES", &c.Protocol.DDPulses)
	e.uint("LUXBIN_SEED", &c.Protocol.Seed)
	e.int("LUXBIN_SHOTS", &c.Provider.Shots)
	e.int("LUXBIN_MAX_QUBITS", &c.Provider.MaxQubits)
	e.string("LUXBIN_BACKEND", &c.Provider.Backend)
	e.float("LUXBIN_NV_WAVELENGTH", &c.Node.Wavelength)
	e.float("LUXBIN_PUMP_WAVELENGTH", &c.Node.PumpWavelength)
	e.float("LUXBIN_COHERENCE_TIME", &c.Node.CoherenceTimeUS)
	e.string("LUXBIN_STORE", &c.Store.Kind)
	e.string("LUXBIN_STORE_PATH", &c.Store.Path)
	e.string("LUXBIN_REDIS_ADDR", &c.Store.RedisAddr)
	e.string("LUXBIN_MONGO_URI", &c.Store.MongoURI)
	e.string("LUXBIN_SERVER_ADDR", &c.Server.Addr)
	return e.err
}

// envReader stops at the first malformed variable.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) lookup(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v := strings.TrimSpace(e.getenv(key))
	return v, v != ""
}

func (e *envReader) fail(key, v string, err error) {
	e.err = errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s=%q", key, v)
}

func (e *envReader) string(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) uint(key string, dst *uint64) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}
