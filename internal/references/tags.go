// Package references resolves inline cross-reference tags to live entity
// records for tooltip and description rendering.
package references

import (
	"regexp"
	"strings"
)

// tagPattern matches inline reference tags of the form
// {@type name|source|display}, with source and display optional.
var tagPattern = regexp.MustCompile(`\{@(\w+) ([^}]+)\}`)

// Tag is a parsed inline cross-reference
type Tag struct {
	Type    string // spell, item, background, class, race, ...
	Name    string
	Source  string
	Display string // optional override for rendered text
}

// Text returns what the tag renders as in plain text
func (t Tag) Text() string {
	if t.Display != "" {
		return t.Display
	}
	return t.Name
}

// ParseTag parses one {@type name|source|display} tag. Returns false when
// the string is not a well-formed tag.
func ParseTag(raw string) (Tag, bool) {
	match := tagPattern.FindStringSubmatch(raw)
	if match == nil || match[0] != raw {
		return Tag{}, false
	}
	return tagFromMatch(match[1], match[2]), true
}

func tagFromMatch(tagType, body string) Tag {
	parts := strings.Split(body, "|")
	tag := Tag{Type: strings.ToLower(tagType), Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		tag.Source = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	if len(parts) > 2 {
		tag.Display = strings.TrimSpace(parts[2])
	}
	return tag
}

// ExtractTags returns every inline tag found in a block of text
func ExtractTags(text string) []Tag {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]Tag, 0, len(matches))
	for _, match := range matches {
		tags = append(tags, tagFromMatch(match[1], match[2]))
	}
	return tags
}

// StripTags replaces every inline tag in text with its rendered form, so
// description blobs read as plain prose.
func StripTags(text string) string {
	return tagPattern.ReplaceAllStringFunc(text, func(raw string) string {
		tag, ok := ParseTag(raw)
		if !ok {
			return raw
		}
		return tag.Text()
	})
}
