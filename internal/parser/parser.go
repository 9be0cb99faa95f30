// Package parser extracts descriptive metadata from CSS snippets: the
// leading comment and the Style Settings "@settings" YAML block.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var settingsRe = regexp.MustCompile(`(?s)/\*\s*@settings\b(.*?)\*/`)

// StyleSettings is the YAML document embedded in an @settings comment.
type StyleSettings struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Collapsed bool      `yaml:"collapsed"`
	Settings  []Setting `yaml:"settings"`
}

// Setting is one user-adjustable variable declared by a snippet.
type Setting struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Default     any    `yaml:"default"`
}

// Result holds the output of parsing a snippet.
type Result struct {
	Title       string
	Description string
	Settings    *StyleSettings
}

// Parse reads the leading comment and the first @settings block of a CSS
// snippet. Snippets without either yield an empty Result.
func Parse(data []byte) (*Result, error) {
	res := &Result{}

	if m := settingsRe.FindSubmatch(data); m != nil {
		var ss StyleSettings
		if err := yaml.Unmarshal(dedent(m[1]), &ss); err != nil {
			return nil, fmt.Errorf("parser: @settings: %w", err)
		}
		res.Settings = &ss
	}

	if comment, ok := leadingComment(data); ok {
		lines := commentLines(comment)
		if len(lines) > 0 {
			res.Title = lines[0]
			res.Description = strings.Join(lines[1:], "\n")
		}
	}
	if res.Settings != nil && res.Settings.Name != "" {
		res.Title = res.Settings.Name
	}
	return res, nil
}

// SettingCount returns the number of declared settings.
func (r *Result) SettingCount() int {
	if r.Settings == nil {
		return 0
	}
	return len(r.Settings.Settings)
}

// leadingComment returns the body of the first /* ... */ comment when it
// precedes any rule. An @settings comment does not count.
func leadingComment(data []byte) (string, bool) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if !bytes.HasPrefix(trimmed, []byte("/*")) {
		return "", false
	}
	end := bytes.Index(trimmed, []byte("*/"))
	if end < 0 {
		return "", false
	}
	body := string(trimmed[2:end])
	if strings.HasPrefix(strings.TrimSpace(body), "@settings") {
		return "", false
	}
	return body, true
}

func commentLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// dedent strips the common leading indentation so YAML nested in an
// indented comment still parses.
func dedent(b []byte) []byte {
	lines := strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return []byte(strings.Join(lines, "\n"))
	}
	for i, l := range lines {
		if len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = strings.TrimLeft(l, " \t")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
