// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/Luxbin-labs/luxbin-chain/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/Luxbin-labs/luxbin-chain/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/Luxbin-labs/luxbin-chain/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version of the binary (e.g., "v0.3.0").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information, including the
// entanglement protocol revision the binary speaks.
func String(protocol string) string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nprotocol: %s", Version, Commit, Date, protocol)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
