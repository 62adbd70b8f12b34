package deviceinfo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads an Info from a YAML profile file. Provisioned fleets use
// this instead of host introspection so device identity survives reimaging.
func LoadProfile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("deviceinfo: failed to read profile: %w", err)
	}

	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("deviceinfo: failed to parse profile: %w", err)
	}
	return info, nil
}
