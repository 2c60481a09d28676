package config

import (
	"fmt"
	"sort"
	"strings"
)

// Require checks that every named setting has a value and reports all the
// missing ones in a single error.
func Require(settings map[string]string) error {
	var missing []string
	for name, value := range settings {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
}
