package voidecs

import (
	"fmt"
	"log/slog"
)

// Plugin is an ordered registrar contributing components, resources,
// and systems to an App at build time.
type Plugin interface {
	Name() string
	Build(app *App)
}

// PluginDependencies is implemented by plugins that must be added after
// their named dependencies.
type PluginDependencies interface {
	Dependencies() []string
}

// PluginEnabler is implemented by plugins with an OnEnable hook, which
// PluginManager.Build runs right after that plugin's Build.
type PluginEnabler interface {
	OnEnable(app *App)
}

// PluginDisabler declares the matching OnDisable hook. PluginManager
// itself never calls OnDisable.
type PluginDisabler interface {
	OnDisable(app *App)
}

// PluginManager holds plugins in strict add-time order:
// a plugin's declared dependencies must already have been added.
type PluginManager struct {
	order  []Plugin
	byName map[string]int
	built  bool
	logger *slog.Logger
}

// NewPluginManager returns an empty, unbuilt manager using slog.Default().
func NewPluginManager() *PluginManager {
	return &PluginManager{byName: make(map[string]int), logger: slog.Default()}
}

// NewPluginManagerWithLogger is like NewPluginManager but logs build
// order to logger instead of slog.Default().
func NewPluginManagerWithLogger(logger *slog.Logger) *PluginManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &PluginManager{byName: make(map[string]int), logger: logger}
}

// Add appends plugin to the registration order. Rejects a duplicate
// name, a plugin added after Build, or a plugin whose declared
// dependency hasn't been added yet.
func (m *PluginManager) Add(plugin Plugin) error {
	if m.built {
		return ErrBuildLocked
	}
	name := plugin.Name()
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePluginName, name)
	}
	if deps, ok := plugin.(PluginDependencies); ok {
		for _, dep := range deps.Dependencies() {
			if _, ok := m.byName[dep]; !ok {
				return fmt.Errorf("%w: %q needs %q", ErrPluginDependency, name, dep)
			}
		}
	}
	m.byName[name] = len(m.order)
	m.order = append(m.order, plugin)
	return nil
}

// AddBefore inserts plugin immediately before the plugin named existing.
func (m *PluginManager) AddBefore(plugin Plugin, existing string) error {
	return m.addAt(plugin, existing, 0)
}

// AddAfter inserts plugin immediately after the plugin named existing.
func (m *PluginManager) AddAfter(plugin Plugin, existing string) error {
	return m.addAt(plugin, existing, 1)
}

func (m *PluginManager) addAt(plugin Plugin, existing string, offset int) error {
	if m.built {
		return ErrBuildLocked
	}
	name := plugin.Name()
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePluginName, name)
	}
	idx, ok := m.byName[existing]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPluginNotFound, existing)
	}
	insertAt := idx + offset
	m.order = append(m.order[:insertAt], append([]Plugin{plugin}, m.order[insertAt:]...)...)
	m.reindex()
	return nil
}

func (m *PluginManager) reindex() {
	m.byName = make(map[string]int, len(m.order))
	for i, p := range m.order {
		m.byName[p.Name()] = i
	}
}

// Has reports whether name has been added.
func (m *PluginManager) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Get returns the plugin named name, if added.
func (m *PluginManager) Get(name string) (Plugin, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.order[idx], true
}

// List returns plugins in registration order.
func (m *PluginManager) List() []Plugin {
	out := make([]Plugin, len(m.order))
	copy(out, m.order)
	return out
}

// Dependencies returns the declared dependencies of name, or nil if it
// has none or is not registered.
func (m *PluginManager) Dependencies(name string) []string {
	idx, ok := m.byName[name]
	if !ok {
		return nil
	}
	if deps, ok := m.order[idx].(PluginDependencies); ok {
		return deps.Dependencies()
	}
	return nil
}

// Remove unregisters name. Only valid before Build.
func (m *PluginManager) Remove(name string) error {
	if m.built {
		return ErrBuildLocked
	}
	idx, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPluginNotFound, name)
	}
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	m.reindex()
	return nil
}

// BuildOrder returns the names of registered plugins in the order Build
// will invoke them.
func (m *PluginManager) BuildOrder() []string {
	names := make([]string, len(m.order))
	for i, p := range m.order {
		names[i] = p.Name()
	}
	return names
}

// Build invokes every plugin's Build, then OnEnable if present, in
// registration order. Only valid once.
func (m *PluginManager) Build(app *App) error {
	if m.built {
		return ErrAlreadyBuilt
	}
	m.logger.Info("building plugins", "order", m.BuildOrder())
	for _, p := range m.order {
		p.Build(app)
		if enabler, ok := p.(PluginEnabler); ok {
			enabler.OnEnable(app)
		}
	}
	m.built = true
	return nil
}
