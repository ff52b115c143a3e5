// Package operations holds the catalog of report-generating operations and
// the dispatcher that validates arguments and renders their reports.
package operations

// Param describes one string parameter of an operation.
type Param struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Required    bool     `json:"required" yaml:"required"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Operation is a named report with an explicit parameter schema.
// Choices are evaluated before rendering; Template only substitutes.
type Operation struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	UseWhen     string   `json:"use_when,omitempty" yaml:"use_when,omitempty"`
	SideEffects string   `json:"side_effects,omitempty" yaml:"side_effects,omitempty"`
	Params      []Param  `json:"params" yaml:"params"`
	Choices     []Choice `json:"-" yaml:"-"`
	Template    string   `json:"-" yaml:"-"`

	// ReleasesIdentity marks operations that render the configured identity.
	ReleasesIdentity bool `json:"-" yaml:"-"`
}

// Required returns the names of the required parameters in declaration order.
func (o *Operation) Required() []string {
	var names []string
	for _, p := range o.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Defaults returns the documented default of every optional parameter.
func (o *Operation) Defaults() map[string]string {
	defaults := make(map[string]string)
	for _, p := range o.Params {
		if !p.Required {
			defaults[p.Name] = p.Default
		}
	}
	return defaults
}

// ParamByName looks up a parameter by name.
func (o *Operation) ParamByName(name string) (Param, bool) {
	for _, p := range o.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func required(name, description string, options ...string) Param {
	return Param{Name: name, Description: description, Required: true, Options: options}
}

func optional(name, description, def string, options ...string) Param {
	return Param{Name: name, Description: description, Default: def, Options: options}
}
