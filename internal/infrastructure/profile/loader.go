package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KAwotwe/emma-digital-twin-mcp/internal/core/domain"
)

// Load reads the profile record from a JSON or YAML file, selected by
// extension. The profile is immutable after this point.
func Load(path string) (domain.Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read profile file: %w", err)
	}

	var p domain.Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return domain.Profile{}, fmt.Errorf("parse profile yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &p); err != nil {
			return domain.Profile{}, fmt.Errorf("parse profile json: %w", err)
		}
	}

	if strings.TrimSpace(p.Personal.Name) == "" {
		return domain.Profile{}, fmt.Errorf("profile %s: personal.name is required", path)
	}
	return p, nil
}
