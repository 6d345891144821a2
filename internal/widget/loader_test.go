package widget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definitionJSON = `{
  "propertyGroups": [
    {
      "caption": "General",
      "properties": [{"key": "name"}, {"key": "advancedOption"}],
      "propertyGroups": [{"caption": "Inner", "properties": [{"key": "inner"}]}]
    }
  ]
}`

const definitionYAML = `
propertyGroups:
  - caption: General
    properties:
      - key: name
      - key: advancedOption
    propertyGroups:
      - caption: Inner
        properties:
          - key: inner
`

const definitionTOML = `
[[propertyGroups]]
caption = "General"

  [[propertyGroups.properties]]
  key = "name"

  [[propertyGroups.properties]]
  key = "advancedOption"

  [[propertyGroups.propertyGroups]]
  caption = "Inner"

    [[propertyGroups.propertyGroups.properties]]
    key = "inner"
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want Format
	}{
		{"json extension", "widget.json", "", FormatJSON},
		{"yaml extension", "widget.YAML", "", FormatYAML},
		{"yml extension", "widget.yml", "", FormatYAML},
		{"toml extension", "widget.toml", "", FormatTOML},
		{"sniffed json", "widget", `{"a": 1}`, FormatJSON},
		{"sniffed text", "widget", "a: 1\n", FormatYAML},
		{"empty", "widget", "  ", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.path, []byte(tt.data)))
		})
	}
}

func TestParseDefinitionFormats(t *testing.T) {
	inputs := map[string]string{
		"widget.json": definitionJSON,
		"widget.yaml": definitionYAML,
		"widget.toml": definitionTOML,
	}

	for path, data := range inputs {
		t.Run(path, func(t *testing.T) {
			def, err := ParseDefinition(path, []byte(data))
			require.NoError(t, err)
			require.Len(t, def.PropertyGroups, 1)

			group := def.PropertyGroups[0]
			require.NotNil(t, group.Caption)
			assert.Equal(t, "General", *group.Caption)
			require.Len(t, group.Properties, 2)
			key, ok := group.Properties[1].Key()
			assert.True(t, ok)
			assert.Equal(t, "advancedOption", key)

			require.Len(t, group.PropertyGroups, 1)
			key, _ = group.PropertyGroups[0].Properties[0].Key()
			assert.Equal(t, "inner", key)
		})
	}
}

func TestParseDefinitionBareList(t *testing.T) {
	def, err := ParseDefinition("groups.json", []byte(`[{"caption": "A", "properties": [{"key": "a"}]}]`))
	require.NoError(t, err)
	require.Len(t, def.PropertyGroups, 1)
	assert.Equal(t, "A", *def.PropertyGroups[0].Caption)
}

func TestParseDefinitionEmptyObject(t *testing.T) {
	def, err := ParseDefinition("widget.json", []byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, def.PropertyGroups)
	assert.Empty(t, def.PropertyGroups)
}

func TestParseDefinitionInvalid(t *testing.T) {
	_, err := ParseDefinition("widget.json", []byte(`{"propertyGroups": [`))
	assert.Error(t, err)

	_, err = ParseDefinition("widget.toml", []byte(`propertyGroups = [`))
	assert.Error(t, err)
}

func TestParseValues(t *testing.T) {
	values, err := ParseValues("values.yaml", []byte("hideAdvanced: true\ncount: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, true, values["hideAdvanced"])
	assert.EqualValues(t, 3, values["count"])

	values, err = ParseValues("values.json", []byte(`{"name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", values["name"])

	values, err = ParseValues("values.json", []byte(""))
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	defPath := filepath.Join(dir, "widget.yaml")
	require.NoError(t, os.WriteFile(defPath, []byte(definitionYAML), 0o644))
	valuesPath := filepath.Join(dir, "values.toml")
	require.NoError(t, os.WriteFile(valuesPath, []byte("hideAdvanced = true\n"), 0o644))
	scriptPath := filepath.Join(dir, "Widget.editorConfig.js")
	require.NoError(t, os.WriteFile(scriptPath, []byte("export function check(values) { return []; }\n"), 0o644))

	def, err := LoadDefinition(defPath)
	require.NoError(t, err)
	assert.Len(t, def.PropertyGroups, 1)

	values, err := LoadValues(valuesPath)
	require.NoError(t, err)
	assert.Equal(t, true, values["hideAdvanced"])

	script, err := LoadScript(scriptPath)
	require.NoError(t, err)
	assert.Contains(t, script, "function check")

	_, err = LoadDefinition(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadScriptRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.js")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	require.NoError(t, os.WriteFile(path, png, 0o644))

	_, err := LoadScript(path)
	assert.Error(t, err)
}
