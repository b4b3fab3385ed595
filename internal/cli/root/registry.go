package root

import "github.com/regenrek/metarbar/internal/cli/spec"

// Handler runs one CLI command invocation.
type Handler func(ctx CommandContext) error

// Registry holds the handler for every command ID in the spec.
type Registry struct {
	byID map[string]Handler
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Handler)}
}

// Register binds a handler to a command ID. Nil receivers, blank IDs
// and nil handlers are ignored.
func (r *Registry) Register(id string, handler Handler) {
	if r == nil || id == "" || handler == nil {
		return
	}
	r.byID[id] = handler
}

// HandlerFor looks up the handler for a command ID.
func (r *Registry) HandlerFor(id string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	handler, ok := r.byID[id]
	return handler, ok
}

// EnsureHandlers checks that every leaf command in the spec has a
// registered handler, naming all the missing ones at once.
func (r *Registry) EnsureHandlers(doc *spec.Spec) error {
	if r == nil || doc == nil {
		return nil
	}
	var missing []string
	for _, cmd := range doc.AllCommands() {
		if len(cmd.Subcommands) > 0 {
			continue
		}
		if _, ok := r.byID[cmd.ID]; !ok {
			missing = append(missing, cmd.ID)
		}
	}
	if len(missing) > 0 {
		return missingHandlersError(missing)
	}
	return nil
}
