package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that can be set from a string e.g. "30s" or "2500ms" in
// a JSON, YAML or TOML configuration file or an environment variable.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalText(b []byte) error {
	return d.SetValue(string(b))
}

// SetValue implements cleanenv.Setter.
func (d *Duration) SetValue(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q (%w)", s, err)
	}

	if v < 0 {
		return fmt.Errorf("invalid duration %q", s)
	}

	*d = Duration(v)

	return nil
}
