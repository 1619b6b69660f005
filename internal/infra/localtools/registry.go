package localtools

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"go.uber.org/zap"

	"toolagentd/internal/domain"
)

// Handler executes a local tool. Arguments have already been validated
// against the tool's input schema when the handler runs.
type Handler func(ctx context.Context, args map[string]any) (domain.ToolOutput, error)

// Spec bundles the schema used for discovery with the handler used for
// invocation so the two cannot drift apart.
type Spec struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Handler     Handler
}

type entry struct {
	spec     Spec
	resolved *jsonschema.Resolved
}

// Registry is an immutable-after-construction mapping from tool name
// to local tool spec. It has no failure modes after construction.
type Registry struct {
	logger  *zap.Logger
	entries map[string]entry
	order   []string
}

func NewRegistry(logger *zap.Logger, specs ...Spec) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		logger:  logger.Named("localtools"),
		entries: make(map[string]entry, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("local tool name is required")
		}
		if spec.Handler == nil {
			return nil, fmt.Errorf("local tool %q has no handler", spec.Name)
		}
		if _, exists := r.entries[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate local tool %q", spec.Name)
		}
		var resolved *jsonschema.Resolved
		if spec.InputSchema != nil {
			var err error
			resolved, err = spec.InputSchema.Resolve(nil)
			if err != nil {
				return nil, fmt.Errorf("resolve schema for %q: %w", spec.Name, err)
			}
		}
		r.entries[spec.Name] = entry{spec: spec, resolved: resolved}
		r.order = append(r.order, spec.Name)
	}
	return r, nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	e, ok := r.entries[name]
	return e.spec, ok
}

// Has reports whether name is a local tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Descriptors lists all local tools in registration order.
func (r *Registry) Descriptors() []domain.ToolDescriptor {
	descriptors := make([]domain.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		spec := r.entries[name].spec
		var schema any = spec.InputSchema
		if spec.InputSchema == nil {
			schema = domain.DefaultInputSchema()
		}
		descriptors = append(descriptors, domain.ToolDescriptor{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: schema,
			Origin:      domain.OriginLocal,
		})
	}
	return descriptors
}

// Invoke validates args against the tool's input schema and runs the
// handler. A validation failure is INVALID_ARGUMENT; a handler failure
// is INTERNAL.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (domain.ToolOutput, error) {
	e, ok := r.entries[name]
	if !ok {
		return domain.ToolOutput{}, domain.E(domain.CodeNotFound, "localtools.invoke",
			fmt.Sprintf("local tool %q is not registered", name), nil)
	}
	if args == nil {
		args = map[string]any{}
	}
	if e.resolved != nil {
		if err := e.resolved.Validate(args); err != nil {
			return domain.ToolOutput{}, domain.E(domain.CodeInvalidArgument, "localtools.invoke",
				fmt.Sprintf("invalid arguments for %q: %v", name, err), err)
		}
	}
	out, err := e.spec.Handler(ctx, args)
	if err != nil {
		r.logger.Error("local tool failed", zap.String("tool", name), zap.Error(err))
		return domain.ToolOutput{}, domain.Wrap(domain.CodeInternal, "localtools.invoke", err)
	}
	return out, nil
}
