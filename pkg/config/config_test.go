package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got, want := cfg.Entanglement(), entanglement.DefaultConfig(); got != want {
		t.Errorf("Entanglement() = %+v, want %+v", got, want)
	}
	if cfg.Node.CoherenceTimeUS != 1000 {
		t.Errorf("coherence time = %v µs, want 1000", cfg.Node.CoherenceTimeUS)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "luxbin.toml")
	data := `
[protocol]
target_fidelity = 0.95
max_retries = 4
dd_sequence = "kdd"

[provider]
cache_ttl = "90s"

[store]
kind = "file"
path = "/tmp/history.jsonl"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	proto := cfg.Entanglement()
	if proto.TargetFidelity != 0.95 || proto.MaxRetries != 4 || proto.DDSequence != entanglement.KDD {
		t.Errorf("protocol = %+v", proto)
	}
	if proto.DDPulses != 8 {
		t.Errorf("unset dd_pulses = %d, want default 8", proto.DDPulses)
	}
	if cfg.Provider.CacheTTL.Duration != 90*time.Second {
		t.Errorf("cache ttl = %v", cfg.Provider.CacheTTL)
	}
	if cfg.Store.Kind != StoreFile || cfg.Store.Path != "/tmp/history.jsonl" {
		t.Errorf("store = %+v", cfg.Store)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errs.Code
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), errs.ErrCodeInvalidConfig},
		{"bad toml", write("bad.toml", "[protocol\n"), errs.ErrCodeInvalidConfig},
		{"bad duration", write("ttl.toml", "[provider]\ncache_ttl = \"soon\"\n"), errs.ErrCodeInvalidConfig},
		{"unknown dd", write("dd.toml", "[protocol]\ndd_sequence = \"UDD\"\n"), errs.ErrCodeInvalidDDSequence},
		{"zero retries", write("retries.toml", "[protocol]\nmax_retries = 0\n"), errs.ErrCodeInvalidConfig},
		{"redis without addr", write("redis.toml", "[store]\nkind = \"redis\"\n"), errs.ErrCodeInvalidConfig},
		{"unknown store", write("store.toml", "[store]\nkind = \"etcd\"\n"), errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errs.Is(err, tt.code) {
				t.Errorf("Load = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"LUXBIN_TARGET_FIDELITY": "0.8",
		"LUXBIN_MAX_RETRIES":     " 3 ",
		"LUXBIN_DD_SEQUENCE":     "CPMG",
		"LUXBIN_SEED":            "42",
		"LUXBIN_SHOTS":           "256",
		"LUXBIN_COHERENCE_TIME":  "2500",
		"LUXBIN_STORE":           "mongo",
		"LUXBIN_MONGO_URI":       "mongodb://localhost:27017",
		"LUXBIN_SERVER_ADDR":     "127.0.0.1:9000",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Protocol.TargetFidelity != 0.8 || cfg.Protocol.MaxRetries != 3 || cfg.Protocol.DDSequence != "CPMG" {
		t.Errorf("protocol = %+v", cfg.Protocol)
	}
	if cfg.Protocol.Seed != 42 || cfg.Provider.Shots != 256 {
		t.Errorf("seed/shots = %d/%d", cfg.Protocol.Seed, cfg.Provider.Shots)
	}
	if cfg.Store.Kind != StoreMongo || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("store/server = %+v %+v", cfg.Store, cfg.Server)
	}

	n := entanglement.NewNode("alice", cfg.NodeOptions()...)
	if n.T2 != 2500*time.Microsecond {
		t.Errorf("node T2 = %v, want 2.5ms", n.T2)
	}
}

func TestApplyEnvMalformed(t *testing.T) {
	for _, key := range []string{"LUXBIN_MAX_RETRIES", "LUXBIN_TARGET_FIDELITY", "LUXBIN_SEED"} {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyEnv(envMap(map[string]string{key: "lots"}))
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("ApplyEnv = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LUXBIN_MAX_RETRIES", "7")
	t.Setenv("LUXBIN_DD_PULSES", "16")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Protocol.MaxRetries != 7 || cfg.Protocol.DDPulses != 16 {
		t.Errorf("protocol = %+v", cfg.Protocol)
	}
}
