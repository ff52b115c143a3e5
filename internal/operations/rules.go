package operations

import (
	"strings"
	"unicode"
)

// Predicate decides whether a parameter value selects a branch.
type Predicate func(value string) bool

// Contains matches when any token occurs in the value, ignoring case.
func Contains(tokens ...string) Predicate {
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ToLower(tok)
	}
	return func(value string) bool {
		v := strings.ToLower(value)
		for _, tok := range lowered {
			if strings.Contains(v, tok) {
				return true
			}
		}
		return false
	}
}

// Equals matches when the value is exactly one of the options.
// Case matters: "YouTube" does not match "youtube".
func Equals(options ...string) Predicate {
	return func(value string) bool {
		for _, opt := range options {
			if value == opt {
				return true
			}
		}
		return false
	}
}

// Case pairs a predicate with the text it selects.
type Case struct {
	When Predicate
	Then string
}

// Choice is one row of an operation's rule table. It reads a single
// parameter, walks Cases in order and yields Default when none match.
type Choice struct {
	Name    string
	Param   string
	Cases   []Case
	Default string
}

// Resolve returns the selected text for the given parameter values.
func (c Choice) Resolve(values map[string]string) string {
	v := values[c.Param]
	for _, cs := range c.Cases {
		if cs.When(v) {
			return cs.Then
		}
	}
	return c.Default
}

// when builds a two-way choice.
func when(name, param string, pred Predicate, then, otherwise string) Choice {
	return Choice{Name: name, Param: param, Cases: []Case{{When: pred, Then: then}}, Default: otherwise}
}

// byValue builds a choice over exact values. outputs holds one entry per
// value followed by the fallback.
func byValue(name, param string, values []string, outputs ...string) Choice {
	if len(outputs) != len(values)+1 {
		panic("operations: byValue " + name + " needs one output per value plus a fallback")
	}
	cases := make([]Case, len(values))
	for i, v := range values {
		cases[i] = Case{When: Equals(v), Then: outputs[i]}
	}
	return Choice{Name: name, Param: param, Cases: cases, Default: outputs[len(values)]}
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToTitle(r[0])
	return string(r)
}
