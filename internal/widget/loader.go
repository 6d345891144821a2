package widget

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
)

// Format identifies the document syntax of a widget or values file
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatUnknown Format = "unknown"
)

// DetectFormat picks a format from the file extension, falling back to
// content sniffing. Unrecognized text is treated as YAML, which also accepts JSON.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return FormatUnknown
	}
	mtype := mimetype.Detect(data)
	if mtype.Is("application/json") {
		return FormatJSON
	}
	if strings.HasPrefix(mtype.String(), "text/") {
		return FormatYAML
	}
	return FormatUnknown
}

// Decode parses data in the given format into out. YAML and TOML documents
// are normalized to JSON first so struct tags are shared across formats.
func Decode(format Format, data []byte, out interface{}) error {
	switch format {
	case FormatJSON:
		return sonic.ConfigStd.Unmarshal(data, out)
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("YAML parse error: %w", err)
		}
		return reencode(doc, out)
	case FormatTOML:
		var doc map[string]interface{}
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("TOML parse error: %w", err)
		}
		return reencode(doc, out)
	default:
		return fmt.Errorf("unsupported document format %q", format)
	}
}

func reencode(doc interface{}, out interface{}) error {
	data, err := sonic.ConfigStd.Marshal(normalize(doc))
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}
	return sonic.ConfigStd.Unmarshal(data, out)
}

// normalize converts YAML map keys to strings so the tree can be encoded as JSON
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// ParseDefinition decodes a widget definition document. Both an object with
// a propertyGroups field and a bare list of groups are accepted.
func ParseDefinition(path string, data []byte) (editorconfig.WidgetDefinition, error) {
	format := DetectFormat(path, data)

	var doc interface{}
	if err := Decode(format, data, &doc); err != nil {
		return editorconfig.WidgetDefinition{}, err
	}

	var def editorconfig.WidgetDefinition
	if list, ok := doc.([]interface{}); ok {
		if err := reencode(list, &def.PropertyGroups); err != nil {
			return editorconfig.WidgetDefinition{}, err
		}
	} else if err := reencode(doc, &def); err != nil {
		return editorconfig.WidgetDefinition{}, err
	}

	if def.PropertyGroups == nil {
		def.PropertyGroups = []editorconfig.PropertyGroup{}
	}
	return def, nil
}

// ParseValues decodes a values document. An empty document yields empty values.
func ParseValues(path string, data []byte) (editorconfig.Values, error) {
	values := editorconfig.Values{}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}
	if err := Decode(DetectFormat(path, data), data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = editorconfig.Values{}
	}
	return values, nil
}

// LoadDefinition reads and parses a widget definition file
func LoadDefinition(path string) (editorconfig.WidgetDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return editorconfig.WidgetDefinition{}, fmt.Errorf("read widget definition: %w", err)
	}
	def, err := ParseDefinition(path, data)
	if err != nil {
		return editorconfig.WidgetDefinition{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return def, nil
}

// LoadValues reads and parses a values file
func LoadValues(path string) (editorconfig.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values, err := ParseValues(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}

// LoadScript reads an editor config script and reports its detected MIME type
func LoadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read editor config: %w", err)
	}
	if mtype := mimetype.Detect(data); !strings.HasPrefix(mtype.String(), "text/") && len(data) > 0 {
		return "", fmt.Errorf("editor config %s is not text (%s)", path, mtype.String())
	}
	return string(data), nil
}
