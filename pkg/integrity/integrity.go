// Package integrity compares the hash of the running relictum build against a
// published trust table. The result is advisory and never blocks a launch.
package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/relictum/internal/logger"
	"github.com/glorpus-work/relictum/pkg/errors"
	"github.com/glorpus-work/relictum/pkg/fsutil"
	pkghttp "github.com/glorpus-work/relictum/pkg/http"
	"github.com/glorpus-work/relictum/pkg/model"
)

const (
	// DefaultEndpoint publishes {"<version>": "<sha256 hex>"}.
	DefaultEndpoint = "https://raw.githubusercontent.com/glorpus-work/relictum/main/security.json"

	// BundleName is hashed instead of the executable when it sits next to it.
	BundleName = "relictum.bundle"

	prefixLen = 8
)

// Verifier checks one build. Packaged is false for development builds, which
// are never hashed.
type Verifier struct {
	Enabled    bool
	Packaged   bool
	TargetPath string
	Version    string
	Endpoint   string
	Fetcher    pkghttp.Fetcher
}

// Check runs the verification. It never returns IntegritySecure unless the
// trust table was fetched and its entry matched.
func (v *Verifier) Check(ctx context.Context) model.IntegrityResult {
	if !v.Packaged {
		return model.IntegrityResult{Status: model.IntegrityUnverified, Message: "Development Mode (Unverified)"}
	}
	if !v.Enabled {
		return model.IntegrityResult{Status: model.IntegrityUnverified, Message: "Security Check Disabled by Config"}
	}

	localHash, err := fsutil.SHA256File(v.TargetPath)
	if err != nil {
		logger.Warn("Integrity check could not hash build", logger.Fields{"path": v.TargetPath, "error": err})
		return warning(fmt.Sprintf("Verification Error: %v", err), "")
	}

	if v.Fetcher == nil {
		return warning("Could not connect to verification server.", localHash)
	}
	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	body, err := v.Fetcher.Get(ctx, endpoint)
	if err != nil {
		logger.Warn("Trust table unavailable", logger.Fields{"endpoint": endpoint, "error": err})
		return warning("Could not connect to verification server.", localHash)
	}

	var table map[string]string
	if err := json.Unmarshal(body, &table); err != nil {
		return warning(fmt.Sprintf("Verification Error: malformed trust table: %v", err), localHash)
	}

	trusted, ok := Lookup(table, v.Version)
	if !ok {
		return warning(fmt.Sprintf("Version %s is not yet verified by developer.", v.Version), localHash)
	}

	if strings.EqualFold(trusted, localHash) {
		return model.IntegrityResult{
			Status:     model.IntegritySecure,
			LocalHash:  localHash,
			RemoteHash: trusted,
			Message:    "Protected by Developer",
		}
	}

	mismatch := fmt.Errorf("expected %s, found %s: %w", trusted, localHash, errors.ErrIntegrityMismatch)
	logger.Warn("Integrity mismatch", logger.Fields{"error": mismatch})
	return model.IntegrityResult{
		Status:     model.IntegrityDanger,
		LocalHash:  localHash,
		RemoteHash: trusted,
		Message:    fmt.Sprintf("Integrity Mismatch! Expected: %s..., Found: %s...", prefix(trusted), prefix(localHash)),
	}
}

func warning(msg, localHash string) model.IntegrityResult {
	return model.IntegrityResult{Status: model.IntegrityWarning, LocalHash: localHash, Message: msg}
}

func prefix(hash string) string {
	if len(hash) <= prefixLen {
		return hash
	}
	return hash[:prefixLen]
}

// Lookup finds the digest for ver: the exact key first, then any key that
// parses to the same semantic version ("v1.2" matches "1.2.0").
func Lookup(table map[string]string, ver string) (string, bool) {
	if digest, ok := table[ver]; ok && digest != "" {
		return digest, true
	}
	want, err := version.NewVersion(ver)
	if err != nil {
		return "", false
	}
	for key, digest := range table {
		if digest == "" {
			continue
		}
		have, err := version.NewVersion(key)
		if err != nil {
			continue
		}
		if have.Equal(want) && have.Prerelease() == want.Prerelease() {
			return digest, true
		}
	}
	return "", false
}

// Target returns the file to hash for the running build: a bundle named
// bundleName next to the executable if present, else the executable.
func Target(bundleName string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if bundleName == "" {
		bundleName = BundleName
	}
	if bundle := filepath.Join(filepath.Dir(exe), bundleName); fsutil.IsFile(bundle) {
		return bundle, nil
	}
	return exe, nil
}
