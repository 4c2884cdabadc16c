package policy

import (
	"strings"

	"kubescan/internal/models"
)

// Apply filters and rewrites findings according to cfg. A nil cfg returns
// the input unchanged. Disabled categories are dropped entirely; severity
// overrides match by title prefix, first override wins.
func Apply(findings []models.Finding, cfg *Config) []models.Finding {
	if cfg == nil {
		return findings
	}
	out := make([]models.Finding, 0, len(findings))
	for _, f := range findings {
		if !categoryEnabled(cfg, f.Category) {
			continue
		}
		for _, o := range cfg.Overrides {
			if strings.HasPrefix(f.Title, o.TitlePrefix) {
				f.Severity = models.Severity(strings.ToUpper(o.Severity))
				break
			}
		}
		out = append(out, f)
	}
	return out
}

// ShouldFail reports whether any finding sits at or above the configured
// fail_on_severity threshold. It returns false when cfg is nil or no
// threshold is configured.
func ShouldFail(findings []models.Finding, cfg *Config) bool {
	if cfg == nil || cfg.Enforcement.FailOnSeverity == "" {
		return false
	}
	threshold := models.Severity(strings.ToUpper(cfg.Enforcement.FailOnSeverity))
	if !threshold.Valid() {
		return false
	}
	for _, f := range findings {
		if f.Severity.Valid() && f.Severity.Rank() <= threshold.Rank() {
			return true
		}
	}
	return false
}

func categoryEnabled(cfg *Config, category models.Category) bool {
	cc, ok := cfg.Checkers[string(category)]
	if !ok || cc.Enabled == nil {
		return true
	}
	return *cc.Enabled
}

func severityKnown(s string) bool {
	return models.Severity(strings.ToUpper(s)).Valid()
}
