package editorconfig

import (
	"time"

	"github.com/mohae/deepcopy"
)

// Contract function names recognized at the top level of an editor config.
const (
	FuncGetProperties    = "getProperties"
	FuncCheck            = "check"
	FuncGetPreview       = "getPreview"
	FuncGetCustomCaption = "getCustomCaption"
)

// ContractFunctions lists every name copied into the exports object.
var ContractFunctions = []string{
	FuncGetProperties,
	FuncCheck,
	FuncGetPreview,
	FuncGetCustomCaption,
}

// PropertyDescriptor is one leaf property. Only its "key" field is interpreted.
type PropertyDescriptor map[string]interface{}

// Key returns the descriptor's key when it is a string
func (p PropertyDescriptor) Key() (string, bool) {
	key, ok := p["key"].(string)
	return key, ok
}

// PropertyGroup is a named, possibly nested collection of properties
type PropertyGroup struct {
	Key            *string              `json:"key,omitempty"`
	Caption        *string              `json:"caption,omitempty"`
	Properties     []PropertyDescriptor `json:"properties"`
	PropertyGroups []PropertyGroup      `json:"propertyGroups"`
}

// WidgetDefinition is the default, unfiltered property schema of a widget
type WidgetDefinition struct {
	PropertyGroups []PropertyGroup `json:"propertyGroups"`
}

// Clone returns a deep copy of the definition's property groups.
// The result never aliases the receiver, so scripts and callers cannot
// observe each other's mutations.
func (d WidgetDefinition) Clone() []PropertyGroup {
	if d.PropertyGroups == nil {
		return []PropertyGroup{}
	}
	return deepcopy.Copy(d.PropertyGroups).([]PropertyGroup)
}

// Values is the user's current configuration state, forwarded verbatim to scripts
type Values map[string]interface{}

// ValidationError is one problem reported by a script's check function
type ValidationError struct {
	Property *string `json:"property,omitempty"`
	Message  string  `json:"message"`
}

// EvaluationResult is the combined output of a full evaluation
type EvaluationResult struct {
	FilteredGroups   []PropertyGroup   `json:"filteredGroups"`
	VisibleKeys      []string          `json:"visibleKeys"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// Config controls how each evaluation is executed
type Config struct {
	MaxCallStackSize int           // Maximum JS call depth before a RangeError
	Timeout          time.Duration // Zero disables the execution deadline
	MaxConcurrent    int64         // Zero leaves worker admission unbounded
	EnableConsole    bool          // Forward console.* to the logger
}

// DefaultConfig returns the configuration used by the package-level helpers
func DefaultConfig() Config {
	return Config{
		MaxCallStackSize: 8192,
		Timeout:          0,
		MaxConcurrent:    0,
		EnableConsole:    true,
	}
}
