package editorconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
)

// codec marshals values across the host/script boundary with encoding/json
// compatible output
var codec = sonic.ConfigStd

const getPropertiesCall = `(function () {
  var values = JSON.parse(%s);
  var defaultProps = JSON.parse(%s);
  if (typeof exports.getProperties !== 'function') return defaultProps;
  return exports.getProperties(values, defaultProps);
})()`

const checkCall = `(function () {
  var values = JSON.parse(%s);
  if (typeof exports.check !== 'function') return [];
  var errors = exports.check(values);
  if (!errors) return [];
  return errors;
})()`

// Line and paragraph separators are legal in JSON strings but not in every
// engine's string literals.
var literalEscaper = strings.NewReplacer("\u2028", `\u2028`, "\u2029", `\u2029`)

// GetProperties calls getProperties(values, defaultProperties). When the
// function is absent the defaults are echoed back unchanged.
func (s *sandbox) GetProperties(values Values, groups []PropertyGroup) ([]PropertyGroup, error) {
	if groups == nil {
		groups = []PropertyGroup{}
	}

	valuesLit, err := jsonLiteral(orEmpty(values))
	if err != nil {
		return nil, newError(KindSerialization, StageEncodeInput, FuncGetProperties, err)
	}
	groupsLit, err := jsonLiteral(groups)
	if err != nil {
		return nil, newError(KindSerialization, StageEncodeInput, FuncGetProperties, err)
	}

	raw, err := s.call(FuncGetProperties, fmt.Sprintf(getPropertiesCall, valuesLit, groupsLit))
	if err != nil {
		return nil, err
	}
	if raw == "null" {
		return nil, newError(KindSerialization, StageDecodeOutput, FuncGetProperties,
			errors.New("returned null instead of a list of property groups"))
	}

	var out []PropertyGroup
	if err := codec.UnmarshalFromString(raw, &out); err != nil {
		return nil, newError(KindSerialization, StageDecodeOutput, FuncGetProperties, err)
	}
	return out, nil
}

// Check calls check(values). A falsy return or an absent function yields no errors.
func (s *sandbox) Check(values Values) ([]ValidationError, error) {
	valuesLit, err := jsonLiteral(orEmpty(values))
	if err != nil {
		return nil, newError(KindSerialization, StageEncodeInput, FuncCheck, err)
	}

	raw, err := s.call(FuncCheck, fmt.Sprintf(checkCall, valuesLit))
	if err != nil {
		return nil, err
	}

	out := []ValidationError{}
	if err := codec.UnmarshalFromString(raw, &out); err != nil {
		return nil, newError(KindSerialization, StageDecodeOutput, FuncCheck, err)
	}
	if out == nil {
		out = []ValidationError{}
	}
	return out, nil
}

// call evaluates a call expression and returns its result as JSON text
func (s *sandbox) call(function, expr string) (string, error) {
	if s.guard.stopped() {
		return "", newError(KindTimeout, StageCall, function, ErrTimeout)
	}

	val, err := s.vm.RunString(expr)
	if err != nil {
		return "", s.classify(StageCall, function, err)
	}

	stringify, ok := goja.AssertFunction(s.vm.Get("JSON").ToObject(s.vm).Get("stringify"))
	if !ok {
		return "", newError(KindSerialization, StageDecodeOutput, function, errors.New("JSON.stringify is not callable"))
	}
	encoded, err := stringify(goja.Undefined(), val)
	if err != nil {
		return "", newError(KindSerialization, StageDecodeOutput, function, err)
	}
	if encoded == nil || goja.IsUndefined(encoded) {
		return "", newError(KindSerialization, StageDecodeOutput, function, errors.New("returned a value with no JSON representation"))
	}

	text, ok := encoded.Export().(string)
	if !ok {
		return "", newError(KindSerialization, StageDecodeOutput, function, fmt.Errorf("stringify produced %T", encoded.Export()))
	}
	return text, nil
}

// jsonLiteral encodes v as JSON and then quotes that text as a script string
// literal suitable for JSON.parse
func jsonLiteral(v interface{}) (string, error) {
	text, err := codec.MarshalToString(v)
	if err != nil {
		return "", err
	}
	quoted, err := codec.MarshalToString(text)
	if err != nil {
		return "", err
	}
	return literalEscaper.Replace(quoted), nil
}

func orEmpty(values Values) Values {
	if values == nil {
		return Values{}
	}
	return values
}
