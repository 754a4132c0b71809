package accounts

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultMinScore uint32 = 170
	DefaultMaxScore uint32 = 250
)

// ErrConfigInvalid marks an account file that cannot be used
var ErrConfigInvalid = errors.New("invalid account config")

// AccountConfig holds everything needed to play one account.
// Field names match the keys used in account files.
type AccountConfig struct {
	MinScore           uint32   `json:"MinScore" yaml:"MinScore"`
	MaxScore           uint32   `json:"MaxScore" yaml:"MaxScore"`
	AuthorizationToken string   `json:"AuthorizationToken" yaml:"AuthorizationToken"`
	Platform           Platform `json:"Platform" yaml:"Platform"`
	Proxy              string   `json:"Proxy,omitempty" yaml:"Proxy,omitempty"`

	// Source file, not serialized
	FileName string `json:"-" yaml:"-"`
	FilePath string `json:"-" yaml:"-"`
}

// NewAccountConfig returns a config with default score range and platform
func NewAccountConfig() *AccountConfig {
	return &AccountConfig{
		MinScore: DefaultMinScore,
		MaxScore: DefaultMaxScore,
		Platform: DefaultPlatform,
	}
}

// Validate checks the invariants the driver relies on
func (a *AccountConfig) Validate() error {
	if strings.TrimSpace(a.AuthorizationToken) == "" {
		return fmt.Errorf("%w: authorization token is empty", ErrConfigInvalid)
	}
	if a.MinScore > a.MaxScore {
		return fmt.Errorf("%w: MinScore %d is greater than MaxScore %d", ErrConfigInvalid, a.MinScore, a.MaxScore)
	}
	if !a.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %d", ErrConfigInvalid, int(a.Platform))
	}
	if a.Proxy != "" {
		if _, err := a.ProxyURL(); err != nil {
			return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
	}
	return nil
}

// ProxyURL parses the optional proxy. Returns nil when none is configured.
func (a *AccountConfig) ProxyURL() (*url.URL, error) {
	if a.Proxy == "" {
		return nil, nil
	}
	u, err := url.Parse(a.Proxy)
	if err != nil {
		return nil, fmt.Errorf("bad proxy %q: %w", a.Proxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q has no host", a.Proxy)
	}
	return u, nil
}

// MaskedToken returns the token with its middle hidden, for display
func (a *AccountConfig) MaskedToken() string {
	t := a.AuthorizationToken
	if len(t) <= 8 {
		return strings.Repeat("*", len(t))
	}
	return t[:4] + strings.Repeat("*", 8) + t[len(t)-4:]
}

// Name identifies the account in logs
func (a *AccountConfig) Name() string {
	if a.FileName != "" {
		return a.FileName
	}
	return a.MaskedToken()
}
