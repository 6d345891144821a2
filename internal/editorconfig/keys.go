package editorconfig

import (
	"slices"
	"sort"
)

// VisibleKeys collects every property key in the tree, depth first, and
// returns them sorted and deduplicated
func VisibleKeys(groups []PropertyGroup) []string {
	keys := collectKeys(groups, []string{})
	sort.Strings(keys)
	return slices.Compact(keys)
}

func collectKeys(groups []PropertyGroup, acc []string) []string {
	for _, group := range groups {
		for _, property := range group.Properties {
			if key, ok := property.Key(); ok {
				acc = append(acc, key)
			}
		}
		acc = collectKeys(group.PropertyGroups, acc)
	}
	return acc
}
