// Package authz implements role-scoped capability dispatch. A static
// registry built once at startup maps (role, capability) pairs to strategy
// implementations; resolution fails closed when no binding exists.
package authz

import (
	"errors"
	"fmt"
)

// ErrNotAuthorized indicates that no strategy is bound for the requested
// role and capability. It is the only authorization failure this layer
// produces; strategies never re-check roles.
var ErrNotAuthorized = errors.New("authz: not authorized")

type binding struct {
	role       Role
	capability Capability
}

// Registry holds the static (role, capability) -> strategy table. It is
// populated during wiring and must not be mutated afterwards; concurrent
// reads are safe without locking.
type Registry struct {
	bindings map[binding]any
	sealed   bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[binding]any)}
}

// Bind registers a strategy for every given role under one capability.
// Binding the same pair twice or binding guest under a manage capability is
// a wiring bug, so both panic at startup rather than fail at request time.
func (r *Registry) Bind(capability Capability, strategy any, roles ...Role) {
	if r.sealed {
		panic("authz: bind on sealed registry")
	}
	if strategy == nil {
		panic(fmt.Sprintf("authz: nil strategy for %s", capability))
	}
	for _, role := range roles {
		if !role.Valid() {
			panic(fmt.Sprintf("authz: invalid role %d for %s", int(role), capability))
		}
		if role == RoleGuest && capability.Action == ActionManage {
			panic(fmt.Sprintf("authz: guest bound under %s", capability))
		}
		key := binding{role: role, capability: capability}
		if _, exists := r.bindings[key]; exists {
			panic(fmt.Sprintf("authz: duplicate binding %s for role %s", capability, role))
		}
		r.bindings[key] = strategy
	}
}

// Seal freezes the registry. Called once after wiring completes.
func (r *Registry) Seal() {
	r.sealed = true
}

// Resolve returns the strategy bound for the role and capability, or
// ErrNotAuthorized when no binding exists. This is the single authorization
// decision point for capability access.
func (r *Registry) Resolve(role Role, capability Capability) (any, error) {
	strategy, ok := r.bindings[binding{role: role, capability: capability}]
	if !ok {
		return nil, fmt.Errorf("%w: %s may not %s", ErrNotAuthorized, role, capability)
	}
	return strategy, nil
}

// Roles lists the roles bound under a capability, in role order. Used by
// invariant tests and the permissions listing endpoint.
func (r *Registry) Roles(capability Capability) []Role {
	var roles []Role
	for _, role := range []Role{RoleGuest, RoleUser, RoleAdmin, RoleSuperAdmin} {
		if _, ok := r.bindings[binding{role: role, capability: capability}]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// ResolveAs resolves a binding and asserts the strategy to the family's
// typed interface. A failed assertion means the wiring bound the wrong
// implementation and is reported as an error, never a silent fallback.
func ResolveAs[T any](r *Registry, role Role, capability Capability) (T, error) {
	var zero T
	strategy, err := r.Resolve(role, capability)
	if err != nil {
		return zero, err
	}
	typed, ok := strategy.(T)
	if !ok {
		return zero, fmt.Errorf("authz: strategy bound for %s does not implement %T", capability, zero)
	}
	return typed, nil
}
