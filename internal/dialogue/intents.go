package dialogue

import (
	"fmt"
	"regexp"
	"strings"

	"sehat/internal/reference"
)

type Intent struct {
	Name     string
	Matcher  *regexp.Regexp
	Response string
}

// CompileIntents keeps the declared order; it is the match priority.
func CompileIntents(defs []reference.Intent) ([]Intent, error) {
	out := make([]Intent, 0, len(defs))
	for _, d := range defs {
		re, err := regexp.Compile("(?i)" + d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile intent %s: %w", d.Name, err)
		}
		out = append(out, Intent{Name: d.Name, Matcher: re, Response: d.Response})
	}
	return out, nil
}

// FirstMatch returns the first intent whose matcher hits text.
func FirstMatch(intents []Intent, text string) (Intent, bool) {
	text = strings.ToLower(text)
	for _, in := range intents {
		if in.Matcher.MatchString(text) {
			return in, true
		}
	}
	return Intent{}, false
}
