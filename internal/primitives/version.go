// Package primitives provides versioning utilities for MachineConfig.
package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// ComputeVersion computes a deterministic version for MachineConfig.
// Priority: user-provided config.Version, else SHA256 of the config JSON with
// states and rules sorted, truncated to 8 bytes. An empty Blank hashes as
// DefaultBlank.
func ComputeVersion(config *MachineConfig) string {
	if config.Version != "" {
		return config.Version
	}

	canonical := *config
	canonical.Blank = config.BlankSymbol()
	canonical.States = append([]State(nil), config.States...)
	sort.Slice(canonical.States, func(i, j int) bool { return canonical.States[i] < canonical.States[j] })
	canonical.Transitions = append([]TransitionConfig(nil), config.Transitions...)
	SortTransitions(canonical.Transitions)

	data, err := json.Marshal(canonical)
	if err != nil {
		// Fallback (should not happen for string-only configs)
		return "invalid-" + config.ID
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
