// Package timex holds time helpers for configuration files.
package timex

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Duration decodes either a Go duration string ("5s", "1m30s") or an integer
// number of nanoseconds, from both JSON and YAML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

// UnmarshalYAML implements the goccy/go-yaml BytesUnmarshaler contract by
// reusing the JSON rules; scalars are valid JSON except for bare strings.
func (d *Duration) UnmarshalYAML(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		v = string(b)
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
}
