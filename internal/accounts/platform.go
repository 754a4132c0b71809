package accounts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Platform selects which browser the client impersonates
type Platform int

const (
	PlatformIOS15 Platform = iota
	PlatformIOS16
	PlatformAndroid
	PlatformWindows
	PlatformMacOS
)

// DefaultPlatform is used when an account file does not name one
const DefaultPlatform = PlatformWindows

var platformNames = []string{"iOS15", "iOS16", "Android", "Windows", "MacOS"}

// Platforms returns every known platform in ordinal order
func Platforms() []Platform {
	return []Platform{PlatformIOS15, PlatformIOS16, PlatformAndroid, PlatformWindows, PlatformMacOS}
}

func (p Platform) String() string {
	if p.Valid() {
		return platformNames[p]
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// Valid reports whether p is one of the known platforms
func (p Platform) Valid() bool {
	return p >= PlatformIOS15 && p <= PlatformMacOS
}

// ParsePlatform accepts a platform name (case-insensitive) or its ordinal
func ParsePlatform(s string) (Platform, error) {
	s = strings.TrimSpace(s)
	for i, name := range platformNames {
		if strings.EqualFold(s, name) {
			return Platform(i), nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil && Platform(n).Valid() {
		return Platform(n), nil
	}

	return 0, fmt.Errorf("unknown platform %q", s)
}

// UnmarshalJSON accepts both "Windows" and 3
func (p *Platform) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParsePlatform(name)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("platform must be a name or number: %w", err)
	}
	if !Platform(n).Valid() {
		return fmt.Errorf("unknown platform %d", n)
	}
	*p = Platform(n)
	return nil
}

func (p Platform) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Platform) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParsePlatform(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Platform) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}
