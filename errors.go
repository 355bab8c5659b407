package voidecs

import "errors"

// Sentinel errors returned by the engine's public operations. Expected,
// recoverable conditions (stale handles, unregistered types, duplicate
// components) are reported this way rather than panicking.
var (
	ErrEntityNotAlive         = errors.New("voidecs: entity is not alive")
	ErrComponentNotRegistered = errors.New("voidecs: component type not registered")
	ErrDuplicateComponent     = errors.New("voidecs: entity already has component type")
	ErrComponentMissing       = errors.New("voidecs: required component type missing from data")
	ErrEntityAlreadyPresent   = errors.New("voidecs: entity already present in archetype")

	ErrDuplicateSystemName = errors.New("voidecs: a system with this name is already registered")
	ErrSystemNotFound      = errors.New("voidecs: no system with this name")
	ErrUnknownDependency   = errors.New("voidecs: depends_on references a system outside this stage")
	ErrCircularDependency  = errors.New("voidecs: circular dependency between systems in this stage")

	ErrDuplicatePluginName = errors.New("voidecs: a plugin with this name is already registered")
	ErrPluginNotFound      = errors.New("voidecs: no plugin with this name")
	ErrPluginDependency    = errors.New("voidecs: plugin dependency has not been added yet")
	ErrAlreadyBuilt        = errors.New("voidecs: plugin manager has already been built")
	ErrBuildLocked         = errors.New("voidecs: plugin manager cannot be modified after build")
)
