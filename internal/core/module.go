// Package core provides the module system foundation for proghelper.
// Providers, persona stores, and the HTTP gateway register themselves
// here at init time and are wired together through an AppContext.
package core

// ModuleID uniquely identifies a module, namespaced by dots
// (e.g. "provider.ollama", "gateway.http").
type ModuleID string

// Module is the minimal interface every module implements.
type Module interface {
	ModuleInfo() ModuleInfo
}

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}
