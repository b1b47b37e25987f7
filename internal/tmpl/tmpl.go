package tmpl

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// placeholderPattern matches $$, $name, and ${name}.
var placeholderPattern = regexp.MustCompile(`\$(?:\$|[_A-Za-z][_A-Za-z0-9]*|\{[_A-Za-z][_A-Za-z0-9]*\})`)

// Substitute replaces $name and ${name} placeholders with values from mapping.
// Placeholders without a key are left as they are and "$$" collapses to "$".
func Substitute(text string, mapping map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if match == "$$" {
			return "$"
		}
		if value, ok := mapping[placeholderName(match)]; ok {
			return value
		}
		return match
	})
}

// Render reads the template at templateSource and substitutes mapping into it.
func Render(mapping map[string]string, templateSource string) (string, error) {
	data, err := os.ReadFile(templateSource)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", templateSource, err)
	}
	return Substitute(string(data), mapping), nil
}

// RenderFS is Render for templates stored in fsys.
func RenderFS(fsys fs.FS, name string, mapping map[string]string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return Substitute(string(data), mapping), nil
}

// Placeholders lists the distinct placeholder names in text, in order of first
// appearance.
func Placeholders(text string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, match := range placeholderPattern.FindAllString(text, -1) {
		if match == "$$" {
			continue
		}
		name := placeholderName(match)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func placeholderName(match string) string {
	name := strings.TrimPrefix(match, "$")
	return strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
}
