// Package config holds the process-wide defaults table for the workspace
// engine: reserved style names, the service-group separator, and the typed
// settings table.
//
// The table is constructed once at startup and passed by reference into the
// registries and the persistence engine instead of being referenced as bare
// globals. Tests can construct alternate tables; production code uses Default
// or Load with a TOML override file.
package config

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/isochrone/isochrone/pkg/errors"
)

// Config is the immutable defaults table. Treat a Config as read-only after
// construction; it is shared across every component of a process.
type Config struct {
	Styles   StylesConfig           `toml:"styles"`
	Services ServicesConfig         `toml:"services"`
	Settings map[string]SettingSpec `toml:"settings"`
}

// StylesConfig names the reserved styles. Reserved styles are recreated
// programmatically on every load and can never be removed or renamed.
type StylesConfig struct {
	// ReservedPrefix marks style names as inbuilt. Add/Remove/Rename on any
	// name carrying this prefix is denied.
	ReservedPrefix string `toml:"reserved_prefix"`

	// NodeDefaults and PinDefaults are the reserved style names that must
	// always exist in their respective lists, in presentation order.
	NodeDefaults []string `toml:"node_defaults"`
	PinDefaults  []string `toml:"pin_defaults"`
}

// ServicesConfig controls service-group serialization.
type ServicesConfig struct {
	// GroupSeparator joins service names into a single attribute value.
	// Service names are sanitized so they can never contain it.
	GroupSeparator string `toml:"group_separator"`
}

// SettingSpec declares the type and built-in default of one workspace
// setting. The type string selects the conversion applied at load time:
// boolean, dock_location, float, rgba, or uinteger.
type SettingSpec struct {
	Type    string `toml:"type"`
	Default string `toml:"default"`
}

// Default returns the built-in defaults table.
func Default() *Config {
	const prefix = "Default:"
	return &Config{
		Styles: StylesConfig{
			ReservedPrefix: prefix,
			NodeDefaults: []string{
				prefix + "System",
				prefix + "Multi-System",
				prefix + "Boundary",
			},
			PinDefaults: []string{
				prefix + "Server",
				prefix + "Client",
				prefix + "Connector",
			},
		},
		Services: ServicesConfig{
			GroupSeparator: ";",
		},
		Settings: map[string]SettingSpec{
			"grid.visible":      {Type: "boolean", Default: "true"},
			"grid.spacing":      {Type: "uinteger", Default: "24"},
			"view.zoom":         {Type: "float", Default: "1.0"},
			"canvas.background": {Type: "rgba", Default: "4280295456"},
			"panel.services":    {Type: "dock_location", Default: "right"},
			"panel.styles":      {Type: "dock_location", Default: "left"},
		},
	}
}

// Load reads a TOML override file on top of the built-in defaults.
// Missing sections keep their defaults; the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExternal, err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency of the table.
func (c *Config) Validate() error {
	if c.Styles.ReservedPrefix == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "styles.reserved_prefix must not be empty")
	}
	if len(c.Services.GroupSeparator) != 1 {
		return errors.New(errors.ErrCodeInvalidArgument, "services.group_separator must be a single character")
	}
	for _, name := range append(append([]string(nil), c.Styles.NodeDefaults...), c.Styles.PinDefaults...) {
		if !strings.HasPrefix(name, c.Styles.ReservedPrefix) {
			return errors.New(errors.ErrCodeInvalidArgument, "reserved style %q does not carry prefix %q", name, c.Styles.ReservedPrefix)
		}
	}
	for key, spec := range c.Settings {
		switch spec.Type {
		case "boolean", "dock_location", "float", "rgba", "uinteger":
		default:
			return errors.New(errors.ErrCodeInvalidArgument, "setting %q has unknown type %q", key, spec.Type)
		}
	}
	return nil
}

// IsReservedStyle reports whether name carries the reserved prefix.
func (c *Config) IsReservedStyle(name string) bool {
	return strings.HasPrefix(name, c.Styles.ReservedPrefix)
}
