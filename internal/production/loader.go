package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/comalice/turingx/internal/primitives"
)

// ErrUnsupportedFormat is returned for machine files that are not YAML, JSON or CUE.
var ErrUnsupportedFormat = errors.New("unsupported machine format")

// machineSchema closes a CUE machine definition over the fields MachineConfig
// knows, so typos fail loudly instead of being dropped.
const machineSchema = `
version?: string
id:       string
states?: [...string]
initial: string
accept:  string
reject:  string
blank?:  string & !=""
transitions?: [...close({
	state: string
	read: [string, string, string]
	next: string
	write: [string, string, string]
	move: [("L" | "R" | "S"), ("L" | "R" | "S"), ("L" | "R" | "S")]
})]
`

// LoadMachineConfig reads a machine definition, picking the decoder from the
// file extension, and validates it.
func LoadMachineConfig(path string) (primitives.MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return primitives.MachineConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseMachineConfig(data, filepath.Base(path))
}

// ParseMachineConfig decodes data as the format implied by name's extension
// (.yaml, .yml, .json or .cue) and validates the result.
func ParseMachineConfig(data []byte, name string) (primitives.MachineConfig, error) {
	var cfg primitives.MachineConfig
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("yaml unmarshal %s: %w", name, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("json unmarshal %s: %w", name, err)
		}
	case ".cue":
		decoded, err := decodeCUE(data, name)
		if err != nil {
			return cfg, err
		}
		cfg = decoded
	default:
		return cfg, fmt.Errorf("%s: %w %q", name, ErrUnsupportedFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return primitives.MachineConfig{}, fmt.Errorf("machine %s: %w", name, err)
	}
	return cfg, nil
}

func decodeCUE(data []byte, name string) (primitives.MachineConfig, error) {
	var cfg primitives.MachineConfig

	ctx := cuecontext.New()
	schema := ctx.CompileString("close({" + machineSchema + "})")
	if err := schema.Err(); err != nil {
		return cfg, fmt.Errorf("cue schema: %w", err)
	}
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return cfg, fmt.Errorf("cue compile %s: %w", name, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cfg, fmt.Errorf("cue validate %s: %w", name, err)
	}
	if err := unified.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("cue decode %s: %w", name, err)
	}
	return cfg, nil
}
