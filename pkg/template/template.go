// Package template renders the per-guild message templates.
// Placeholders are written as {name}; unknown placeholders stay as literal text.
package template

import (
	"sort"
	"strings"
)

// Placeholders used by the bot's templates
const (
	Member = "member"
	Reason = "reason"
	Server = "server"
)

// Vars maps placeholder names (without braces) to their values
type Vars map[string]string

// Render replaces every known {name} placeholder in tpl. It never fails.
func Render(tpl string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}

	// Sorted so the replacer is built the same way every time
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(vars)*2)
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// RenderOr renders tpl, or fallback when tpl is empty
func RenderOr(tpl, fallback string, vars Vars) string {
	if tpl == "" {
		tpl = fallback
	}
	return Render(tpl, vars)
}
