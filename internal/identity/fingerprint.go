package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/user"
	"runtime"
	"strings"
)

// visitorIDLength matches the length of browser visitor ids issued to the API.
const visitorIDLength = 32

var errNoSignals = errors.New("no host signals available")

// Fingerprinter computes a stable anonymous visitor id.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// FingerprintFunc adapts a function to Fingerprinter.
type FingerprintFunc func(ctx context.Context) (string, error)

func (f FingerprintFunc) Fingerprint(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticFingerprinter always returns the configured id.
type StaticFingerprinter string

func (s StaticFingerprinter) Fingerprint(_ context.Context) (string, error) {
	if s == "" {
		return "", errors.New("empty fingerprint")
	}

	return string(s), nil
}

// HostFingerprinter derives the visitor id from host characteristics.
type HostFingerprinter struct {
	machineIDPath string
	hostname      func() (string, error)
	username      func() (string, error)
}

// NewHostFingerprinter creates a fingerprinter reading the standard machine-id location.
func NewHostFingerprinter() *HostFingerprinter {
	return &HostFingerprinter{
		machineIDPath: "/etc/machine-id",
		hostname:      os.Hostname,
		username: func() (string, error) {
			u, err := user.Current()
			if err != nil {
				return "", err
			}

			return u.Username, nil
		},
	}
}

func (h *HostFingerprinter) Fingerprint(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	signals := []string{runtime.GOOS, runtime.GOARCH}
	found := 0

	if name, err := h.hostname(); err == nil && name != "" {
		signals = append(signals, name)
		found++
	}

	if name, err := h.username(); err == nil && name != "" {
		signals = append(signals, name)
		found++
	}

	if h.machineIDPath != "" {
		if data, err := os.ReadFile(h.machineIDPath); err == nil {
			if id := strings.TrimSpace(string(data)); id != "" {
				signals = append(signals, id)
				found++
			}
		}
	}

	if found == 0 {
		return "", errNoSignals
	}

	sum := sha256.Sum256([]byte(strings.Join(signals, "|")))

	return hex.EncodeToString(sum[:])[:visitorIDLength], nil
}
