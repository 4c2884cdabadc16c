package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses the policy file at path. A missing file is an
// error; callers that treat the policy as optional should not call Load
// with an empty path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse policy file %q: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid policy file %q: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	for _, o := range cfg.Overrides {
		if o.TitlePrefix == "" {
			return errors.New("override with empty title_prefix")
		}
		if !severityKnown(o.Severity) {
			return fmt.Errorf("override %q has unknown severity %q", o.TitlePrefix, o.Severity)
		}
	}
	if s := cfg.Enforcement.FailOnSeverity; s != "" && !severityKnown(s) {
		return fmt.Errorf("enforcement has unknown fail_on_severity %q", s)
	}
	return nil
}
