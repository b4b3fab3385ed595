// Package spec holds the CLI command tree as an embedded YAML document
// plus the JSON schema it must satisfy. Loading validates the document
// against the schema, so a malformed spec fails the first invocation
// instead of surfacing as odd flag behavior later.
package spec

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed commands.yaml commands.schema.json
var embeddedFS embed.FS

// Spec is the root of the command document.
type Spec struct {
	Version     int       `yaml:"version"`
	App         AppSpec   `yaml:"app"`
	GlobalFlags []Flag    `yaml:"global_flags"`
	Commands    []Command `yaml:"commands"`
}

// AppSpec configures the top-level CLI app.
type AppSpec struct {
	Name                  string `yaml:"name"`
	Summary               string `yaml:"summary"`
	DefaultCommand        string `yaml:"default_command"`
	AllowStationShorthand bool   `yaml:"allow_station_shorthand"`
}

// Flag describes one CLI flag.
type Flag struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Default     any      `yaml:"default"`
	Enum        []string `yaml:"enum"`
	Repeatable  bool     `yaml:"repeatable"`
	Description string   `yaml:"description"`
	Env         string   `yaml:"env"`
	Hidden      bool     `yaml:"hidden"`
}

// Arg describes a positional argument.
type Arg struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Variadic    bool     `yaml:"variadic"`
	Enum        []string `yaml:"enum"`
	Description string   `yaml:"description"`
}

// Constraint is a cross-field rule (exactly_one, at_least_one,
// requires, excludes) over flags and args.
type Constraint struct {
	Type   string   `yaml:"type"`
	Fields []string `yaml:"fields"`
}

// JSONSpec declares a command's --json envelope.
type JSONSpec struct {
	Supported bool   `yaml:"supported"`
	SchemaRef string `yaml:"schema_ref"`
	Stream    bool   `yaml:"stream"`
}

// Command describes a command and its subcommands.
type Command struct {
	Name        string       `yaml:"name"`
	ID          string       `yaml:"id"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Aliases     []string     `yaml:"aliases"`
	Flags       []Flag       `yaml:"flags"`
	Args        []Arg        `yaml:"args"`
	Constraints []Constraint `yaml:"constraints"`
	SideEffects bool         `yaml:"side_effects"`
	Confirm     bool         `yaml:"confirm"`
	JSON        *JSONSpec    `yaml:"json"`
	Hidden      bool         `yaml:"hidden"`
	Subcommands []Command    `yaml:"subcommands"`
}

// SupportsJSON reports whether the command declares a --json envelope.
func (c Command) SupportsJSON() bool {
	return c.JSON != nil && c.JSON.Supported
}

// LoadDefault parses and validates the embedded command document.
func LoadDefault() (*Spec, error) {
	data, err := embeddedFS.ReadFile("commands.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded spec: %w", err)
	}
	return Parse(data)
}

// Parse validates YAML bytes against the schema and decodes them.
func Parse(data []byte) (*Spec, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	doc := &Spec{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	return doc, nil
}

var (
	schemaOnce     sync.Once
	compiledDoc    *jsonschema.Schema
	compileFailure error
)

// compiledSchema compiles the embedded schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := embeddedFS.ReadFile("commands.schema.json")
		if err != nil {
			compileFailure = fmt.Errorf("read embedded schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileFailure = fmt.Errorf("decode schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("commands.schema.json", doc); err != nil {
			compileFailure = fmt.Errorf("register schema: %w", err)
			return
		}
		compiledDoc, compileFailure = compiler.Compile("commands.schema.json")
	})
	return compiledDoc, compileFailure
}

// Validate checks YAML spec bytes against the embedded JSON schema.
func Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("spec is empty")
	}
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	instance, err := jsonInstance(data)
	if err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("spec schema: %w", err)
	}
	return nil
}

// jsonInstance reroutes the YAML document through encoding/json so the
// validator sees the value shapes it expects (string map keys, float64
// numbers).
func jsonInstance(data []byte) (any, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode spec yaml: %w", err)
	}
	tree, err := stringKeys(tree)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode spec: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("decode spec json: %w", err)
	}
	return instance, nil
}

// stringKeys rewrites any-keyed maps from the YAML decoder into the
// string-keyed maps encoding/json can marshal.
func stringKeys(value any) (any, error) {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("spec map key %v is not a string", key)
			}
			conv, err := stringKeys(val)
			if err != nil {
				return nil, err
			}
			out[name] = conv
		}
		return out, nil
	case map[string]any:
		for key, val := range typed {
			conv, err := stringKeys(val)
			if err != nil {
				return nil, err
			}
			typed[key] = conv
		}
		return typed, nil
	case []any:
		for i, val := range typed {
			conv, err := stringKeys(val)
			if err != nil {
				return nil, err
			}
			typed[i] = conv
		}
		return typed, nil
	default:
		return value, nil
	}
}

// AllCommands flattens the tree in declaration order, parents before
// their subcommands.
func (s *Spec) AllCommands() []Command {
	if s == nil {
		return nil
	}
	var out []Command
	walkCommands(s.Commands, func(cmd Command) {
		out = append(out, cmd)
	})
	return out
}

func walkCommands(cmds []Command, visit func(Command)) {
	for _, cmd := range cmds {
		visit(cmd)
		walkCommands(cmd.Subcommands, visit)
	}
}

// FindByID looks up a command by its stable ID, e.g. "config.show".
// The returned command is a copy.
func (s *Spec) FindByID(id string) *Command {
	id = strings.TrimSpace(id)
	if s == nil || id == "" {
		return nil
	}
	var found *Command
	walkCommands(s.Commands, func(cmd Command) {
		if found == nil && cmd.ID == id {
			clone := cmd
			found = &clone
		}
	})
	return found
}
