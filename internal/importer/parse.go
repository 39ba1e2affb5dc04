package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"mediaspawner/internal/services"
	"mediaspawner/internal/wire"
)

// Parse decodes import text into the wire shape. JSON syntax errors are
// fatal and reported verbatim; shape violations (missing version, profiles,
// or assets) are aggregated into a single invalid-configuration error. A
// version mismatch is returned as a warning, never an error.
func Parse(text string) (*wire.Config, []string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil, services.Wrap(services.ErrParse, "import", "parse", "empty input", nil)
	}
	if !gjson.Valid(trimmed) {
		// Decode anyway to surface the stdlib's position-carrying error.
		var probe any
		err := json.Unmarshal([]byte(trimmed), &probe)
		return nil, nil, services.Wrap(services.ErrParse, "import", "parse", "", err)
	}

	if violations := probeShape(trimmed); len(violations) > 0 {
		return nil, nil, services.Wrap(services.ErrInvalidConfiguration, "import", "validate shape",
			strings.Join(violations, "; "), nil)
	}

	var cfg wire.Config
	if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
		return nil, nil, services.Wrap(services.ErrInvalidConfiguration, "import", "decode", "", err)
	}

	var warnings []string
	if cfg.Version != wire.CurrentVersion {
		warnings = append(warnings, fmt.Sprintf(
			"configuration version %q differs from current %q; compatibility is not guaranteed",
			cfg.Version, wire.CurrentVersion))
	}
	return &cfg, warnings, nil
}

// ParseFile reads and parses an export file from disk.
func ParseFile(path string) (*wire.Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrParse, "import", "read file", path, err)
	}
	return Parse(string(data))
}

// probeShape checks top-level structure with tolerant path queries before
// the strict decode, so every shape violation is reported at once.
func probeShape(text string) []string {
	var violations []string

	version := gjson.Get(text, "version")
	switch {
	case !version.Exists():
		violations = append(violations, "missing version")
	case version.Type != gjson.String:
		violations = append(violations, "version must be a string")
	}

	for _, field := range []string{"profiles", "assets"} {
		value := gjson.Get(text, field)
		switch {
		case !value.Exists():
			violations = append(violations, "missing "+field)
		case !value.IsArray():
			violations = append(violations, field+" must be an array")
		}
	}

	if profiles := gjson.Get(text, "profiles"); profiles.IsArray() {
		profiles.ForEach(func(index, profile gjson.Result) bool {
			if !profile.IsObject() {
				violations = append(violations, fmt.Sprintf("profiles[%d] must be an object", index.Int()))
				return true
			}
			if spawns := profile.Get("spawns"); spawns.Exists() && !spawns.IsArray() {
				violations = append(violations, fmt.Sprintf("profiles[%d].spawns must be an array", index.Int()))
			}
			return true
		})
	}

	return violations
}
