package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/busybeaver/internal/dto"
	"github.com/aretw0/busybeaver/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the syntax of a machine file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads a machine file (YAML or JSON) and returns the named entry it describes.
func Load(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read machine file: %w", err)
	}
	entry, err := Parse(data, FormatOf(path))
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", path, err)
	}
	if entry.Name == "" {
		entry.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return entry, nil
}

// Parse decodes a machine document. The definition is validated immediately,
// so a malformed table is reported here rather than during a run.
func Parse(data []byte, format Format) (Entry, error) {
	var doc map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Entry{}, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Entry{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	var spec dto.Machine
	if err := dto.Decode(doc, &spec); err != nil {
		return Entry{}, err
	}

	machine, err := spec.ToDomain()
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:        spec.Name,
		Description: spec.Description,
		New: func() domain.Machine {
			// Machines are values; handing out the same start configuration is safe.
			return machine
		},
	}, nil
}

// Resolve returns a registered machine by name, or loads it from a file path.
func Resolve(nameOrPath string) (Entry, error) {
	if e, err := Get(nameOrPath); err == nil {
		return e, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return Entry{}, fmt.Errorf("%w: %q", domain.ErrUnknownMachine, nameOrPath)
	}
	return Load(nameOrPath)
}

// Marshal renders a machine's definition and start configuration as YAML.
func Marshal(name string, m domain.Machine) ([]byte, error) {
	spec := dto.Machine{
		Name:       name,
		Definition: dto.FromDefinition(m.Def),
		Start:      string(m.State),
		Initial:    string(m.Tape.Read()),
	}
	return yaml.Marshal(spec)
}
