// Package brand describes the product identity and the gamification tables
// the console is configured with.
package brand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nexus/pkg/directory"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

var (
	ErrMissingName = errors.New("brand: name is required")
	ErrUnknownRole = errors.New("brand: unknown role")
)

// Features toggles optional product areas.
type Features struct {
	Gamification  bool `json:"gamification" yaml:"gamification"`
	DarkMode      bool `json:"dark_mode" yaml:"dark_mode"`
	MultiTenant   bool `json:"multi_tenant" yaml:"multi_tenant"`
	AuditLogs     bool `json:"audit_logs" yaml:"audit_logs"`
	APIKeys       bool `json:"api_keys" yaml:"api_keys"`
	Webhooks      bool `json:"webhooks" yaml:"webhooks"`
	TwoFactorAuth bool `json:"two_factor_auth" yaml:"two_factor_auth"`
}

// RoleInfo is the display metadata of a built-in role.
type RoleInfo struct {
	Name        string            `json:"name" yaml:"name"`
	Tone        gamification.Tone `json:"tone" yaml:"tone"`
	Description string            `json:"description" yaml:"description"`
}

// Config is the full brand definition.
type Config struct {
	Name         string                         `json:"name" yaml:"name"`
	ShortName    string                         `json:"short_name" yaml:"short_name"`
	Tagline      string                         `json:"tagline" yaml:"tagline"`
	Description  string                         `json:"description" yaml:"description"`
	LogoURL      string                         `json:"logo_url" yaml:"logo_url"`
	FaviconURL   string                         `json:"favicon_url" yaml:"favicon_url"`
	SupportURL   string                         `json:"support_url" yaml:"support_url"`
	DocsURL      string                         `json:"docs_url" yaml:"docs_url"`
	SupportEmail string                         `json:"support_email" yaml:"support_email"`
	Features     Features                       `json:"features" yaml:"features"`
	Levels       []gamification.Level           `json:"levels" yaml:"levels"`
	Achievements []gamification.Achievement     `json:"achievements" yaml:"achievements"`
	XPPerAction  gamification.XPTable           `json:"xp_per_action" yaml:"xp_per_action"`
	Roles        map[directory.RoleKey]RoleInfo `json:"roles" yaml:"roles"`
}

// Default returns the stock NexusAdmin brand.
func Default() Config {
	return Config{
		Name:         "NexusAdmin",
		ShortName:    "Nexus",
		Tagline:      "Enterprise Command Center",
		Description:  "Next-generation admin panel for modern SaaS applications",
		LogoURL:      "/logo.svg",
		FaviconURL:   "/favicon.ico",
		SupportURL:   "https://support.example.com",
		DocsURL:      "https://docs.example.com",
		SupportEmail: "support@nexusadmin.io",
		Features: Features{
			Gamification:  true,
			DarkMode:      true,
			MultiTenant:   true,
			AuditLogs:     true,
			APIKeys:       true,
			Webhooks:      true,
			TwoFactorAuth: true,
		},
		Levels:       gamification.DefaultLevels(),
		Achievements: gamification.DefaultAchievements(),
		XPPerAction:  gamification.DefaultXPTable(),
		Roles: map[directory.RoleKey]RoleInfo{
			directory.RoleSuperAdmin: {Name: "Super Admin", Tone: gamification.ToneDestructive, Description: "Full system access"},
			directory.RoleAdmin:      {Name: "Admin", Tone: gamification.TonePrimary, Description: "Administrative access"},
			directory.RoleManager:    {Name: "Manager", Tone: gamification.ToneAccent, Description: "Team management access"},
			directory.RoleEditor:     {Name: "Editor", Tone: gamification.ToneSuccess, Description: "Content editing access"},
			directory.RoleViewer:     {Name: "Viewer", Tone: gamification.ToneMuted, Description: "Read-only access"},
		},
	}
}

// Validate checks identity fields and the gamification tables.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if err := gamification.ValidateLevels(c.Levels); err != nil {
		return fmt.Errorf("brand: levels: %w", err)
	}
	if err := c.XPPerAction.Validate(); err != nil {
		return fmt.Errorf("brand: xp_per_action: %w", err)
	}
	seen := map[string]struct{}{}
	for _, a := range c.Achievements {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("brand: achievement %q: id is required", a.Name)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("brand: duplicate achievement %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// Role returns the display metadata for key.
func (c Config) Role(key directory.RoleKey) (RoleInfo, error) {
	info, ok := c.Roles[key]
	if !ok {
		return RoleInfo{}, fmt.Errorf("%w: %q", ErrUnknownRole, key)
	}
	return info, nil
}

// Progress computes level progress for total against the configured levels.
func (c Config) Progress(total int) (gamification.Progress, error) {
	return gamification.ComputeProgress(total, c.Levels)
}

// DisplayName is the short name when set, otherwise the full name.
func (c Config) DisplayName() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Load decodes a YAML document over the defaults. Unknown keys are rejected.
// Lists in the document replace the defaults wholesale.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("brand: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a brand file. An empty path returns the defaults.
func LoadFile(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("brand: read %s: %w", path, err)
	}
	return Load(bytes.NewReader(raw))
}
