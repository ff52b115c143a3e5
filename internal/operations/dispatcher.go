package operations

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"lifesuite/internal/auth"
	"lifesuite/internal/errors"
)

// DateLayout renders dates like "March 07, 2026".
const DateLayout = "January 02, 2006"

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the source of the report date.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		d.clock = clock
	}
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// IdentityValidator releases the configured identity to an authorized caller.
// *auth.Gate implements it.
type IdentityValidator interface {
	Validate(r *auth.Result) (string, error)
}

// Dispatcher routes a call to its operation and renders the report.
// It holds no mutable state after construction and is safe for concurrent use.
type Dispatcher struct {
	validator IdentityValidator
	ops       map[string]*Operation
	order     []*Operation
	templates *template.Template
	clock     func() time.Time
	logger    *slog.Logger
}

// NewDispatcher builds a dispatcher over the full catalog. Operations that
// release the identity ask validator for it on every call.
func NewDispatcher(validator IdentityValidator, opts ...Option) (*Dispatcher, error) {
	if validator == nil {
		return nil, fmt.Errorf("operations: identity validator is required")
	}
	d := &Dispatcher{
		validator: validator,
		ops:      make(map[string]*Operation),
		clock:    time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}

	tmpl, err := template.New("validate").Option("missingkey=error").Parse("{{.Identity}}")
	if err != nil {
		return nil, err
	}
	if _, err := tmpl.ParseFS(templateFS, "templates/*.md.tmpl"); err != nil {
		return nil, fmt.Errorf("parsing report templates: %w", err)
	}
	d.templates = tmpl

	for _, op := range Catalog() {
		if err := d.register(op); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dispatcher) register(op Operation) error {
	if _, dup := d.ops[op.Name]; dup {
		return fmt.Errorf("operation %q registered twice", op.Name)
	}
	if d.templates.Lookup(op.Template) == nil {
		return fmt.Errorf("operation %q: no template %q", op.Name, op.Template)
	}
	for _, c := range op.Choices {
		if _, ok := op.ParamByName(c.Param); !ok {
			return fmt.Errorf("operation %q: rule %q reads undeclared parameter %q", op.Name, c.Name, c.Param)
		}
	}
	d.ops[op.Name] = &op
	d.order = append(d.order, &op)
	return nil
}

// Operations returns the registered operations in catalog order.
func (d *Dispatcher) Operations() []Operation {
	out := make([]Operation, len(d.order))
	for i, op := range d.order {
		out[i] = *op
	}
	return out
}

// Lookup returns the named operation.
func (d *Dispatcher) Lookup(name string) (Operation, bool) {
	op, ok := d.ops[name]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}

// Dispatch validates args against the operation's schema and renders its report.
// Arguments the operation does not declare are ignored. Nothing is rendered
// unless every required parameter is present. Operations that release the
// identity also need an authorized caller in ctx (see auth.WithResult).
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	op, ok := d.ops[name]
	if !ok {
		return "", errors.NewUnknownOperationError(name)
	}

	values, err := resolveParams(op, args)
	if err != nil {
		return "", err
	}

	var identity string
	if op.ReleasesIdentity {
		caller, _ := auth.FromContext(ctx)
		if identity, err = d.validator.Validate(caller); err != nil {
			return "", err
		}
	}

	rules := make(map[string]string, len(op.Choices))
	for _, c := range op.Choices {
		rules[c.Name] = c.Resolve(values)
	}

	data := &reportData{
		op:       op.Name,
		values:   values,
		rules:    rules,
		date:     d.clock().Format(DateLayout),
		identity: identity,
	}

	var buf strings.Builder
	if err := d.templates.ExecuteTemplate(&buf, op.Template, data); err != nil {
		return "", errors.NewInternalError("rendering "+op.Name, err)
	}

	d.logger.Debug("Operation rendered",
		"operation", op.Name,
		"bytes", buf.Len(),
	)
	return buf.String(), nil
}

// resolveParams fills defaults and reports the first missing required parameter.
// An empty string counts as supplied.
func resolveParams(op *Operation, args map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(op.Params))
	for _, p := range op.Params {
		v, ok := args[p.Name]
		if !ok {
			if p.Required {
				return nil, errors.NewMissingParameterError(op.Name, p.Name)
			}
			v = p.Default
		}
		values[p.Name] = v
	}
	return values, nil
}

// reportData is the value templates execute against.
type reportData struct {
	op       string
	values   map[string]string
	rules    map[string]string
	date     string
	identity string
}

// Arg returns a parameter value verbatim.
func (r *reportData) Arg(name string) (string, error) {
	v, ok := r.values[name]
	if !ok {
		return "", fmt.Errorf("%s: template reads undeclared parameter %q", r.op, name)
	}
	return v, nil
}

// Cap returns a parameter value with only its first letter upper-cased.
func (r *reportData) Cap(name string) (string, error) {
	v, err := r.Arg(name)
	if err != nil {
		return "", err
	}
	return capitalize(v), nil
}

// Rule returns the text a rule table selected.
func (r *reportData) Rule(name string) (string, error) {
	v, ok := r.rules[name]
	if !ok {
		return "", fmt.Errorf("%s: template reads unknown rule %q", r.op, name)
	}
	return v, nil
}

// Date returns the report date.
func (r *reportData) Date() string {
	return r.date
}

// Identity returns the configured identity.
func (r *reportData) Identity() string {
	return r.identity
}
