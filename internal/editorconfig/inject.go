package editorconfig

import (
	"regexp"
	"strings"
)

const hidePropertyInSource = `function hidePropertyIn(groups, propertyKey) {
  if (!Array.isArray(groups)) return groups;
  return groups.map(function (group) {
    var next = Object.assign({}, group);
    if (Array.isArray(group.properties)) {
      next.properties = group.properties.filter(function (property) {
        return !property || property.key !== propertyKey;
      });
    }
    if (Array.isArray(group.propertyGroups)) {
      next.propertyGroups = hidePropertyIn(group.propertyGroups, propertyKey);
    }
    return next;
  });
}
`

const hidePropertiesInSource = `function hidePropertiesIn(groups, propertyKeys) {
  return (propertyKeys || []).reduce(function (acc, key) {
    return hidePropertyIn(acc, key);
  }, groups);
}
`

// helper pairs a well-known utility with the patterns that show the author
// already defined it
type helper struct {
	name    string
	defined *regexp.Regexp
	source  string
}

var helpers = []helper{
	{
		name:    "hidePropertyIn",
		defined: regexp.MustCompile(`\bhidePropertyIn\s*=[^=]|\bfunction\s+hidePropertyIn\s*\(`),
		source:  hidePropertyInSource,
	},
	{
		name:    "hidePropertiesIn",
		defined: regexp.MustCompile(`\bhidePropertiesIn\s*=[^=]|\bfunction\s+hidePropertiesIn\s*\(`),
		source:  hidePropertiesInSource,
	},
}

// Defines reports whether the transformed source already binds the named helper
func Defines(transformed, name string) bool {
	for _, h := range helpers {
		if h.name == name {
			return h.defined.MatchString(transformed)
		}
	}
	return false
}

// BuildInjection returns the helper definitions to prepend to the transformed
// source. A helper the author already defines is skipped, so the author's
// version always wins.
func BuildInjection(transformed string) string {
	var sb strings.Builder
	for _, h := range helpers {
		if h.defined.MatchString(transformed) {
			continue
		}
		sb.WriteString(h.source)
	}
	return sb.String()
}
