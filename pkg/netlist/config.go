package netlist

import (
	"fmt"
	"regexp"
	"slices"
)

// Config controls which objects of a logic model end up in a netlist.
type Config struct {
	IncludeMarkers    bool     // Export electrical markers as single-pin components (default: true)
	IncludeSingletons bool     // Keep nets with a single pin (default: false)
	OnlyTemplates     []string // If set, only export gates of these templates
	RefPattern        string   // If set, only export components whose ref matches this regex
	RefPrefix         string   // Prefix for gates without a name (default: "G")

	refRegex *regexp.Regexp
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		IncludeMarkers: true,
		RefPrefix:      "G",
	}
}

// Validate fills defaults and compiles RefPattern.
func (c *Config) Validate() error {
	if c.RefPrefix == "" {
		c.RefPrefix = "G"
	}
	if c.RefPattern != "" {
		re, err := regexp.Compile(c.RefPattern)
		if err != nil {
			return fmt.Errorf("netlist: ref pattern: %w", err)
		}
		c.refRegex = re
	}
	return nil
}

// ShouldExportTemplate reports whether gates of the named template are exported.
func (c *Config) ShouldExportTemplate(name string) bool {
	return len(c.OnlyTemplates) == 0 || slices.Contains(c.OnlyTemplates, name)
}

// ShouldExportRef reports whether a component reference passes RefPattern.
func (c *Config) ShouldExportRef(ref string) bool {
	return c.refRegex == nil || c.refRegex.MatchString(ref)
}
