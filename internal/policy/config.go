// Package policy applies optional scan policy overrides loaded from a
// YAML file: disabling checker categories, overriding finding severities,
// and deciding whether a scan should fail the process. Overrides are
// applied by the CLI layer after evaluation, never inside the engine.
package policy

// Config is the root of the scan policy file.
type Config struct {
	Version int `yaml:"version"`

	// Checkers toggles whole finding categories by category name
	// (e.g. "RBAC", "Pod Security").
	Checkers map[string]CheckerConfig `yaml:"checkers"`

	// Overrides rewrites finding severities by title prefix.
	Overrides []SeverityOverride `yaml:"overrides"`

	// Enforcement controls the scan's process exit behavior.
	Enforcement EnforcementConfig `yaml:"enforcement"`
}

// CheckerConfig toggles one checker category. A nil Enabled means enabled.
type CheckerConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// SeverityOverride rewrites the severity of findings whose title starts
// with TitlePrefix.
type SeverityOverride struct {
	TitlePrefix string `yaml:"title_prefix"`
	Severity    string `yaml:"severity"`
}

// EnforcementConfig makes the scan fail (non-zero exit) when findings at
// or above the given severity are present. Empty disables enforcement.
type EnforcementConfig struct {
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}
