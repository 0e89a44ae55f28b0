package core

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// registry holds every module known to the process, keyed by ID.
// Modules add themselves from init() via RegisterModule.
var registry = struct {
	sync.RWMutex
	byID map[string]ModuleInfo
}{byID: make(map[string]ModuleInfo)}

// RegisterModule instantiates the module to read its ModuleInfo and records
// it. It panics on an empty ID, a nil constructor or a duplicate ID, since
// any of those is a programming error in the module itself.
func RegisterModule(instance Module) {
	info := instance.ModuleInfo()
	if info.ID == "" {
		panic("module ID must not be empty")
	}
	if info.New == nil {
		panic(fmt.Sprintf("module %s: New function must not be nil", info.ID))
	}

	registry.Lock()
	defer registry.Unlock()

	id := string(info.ID)
	if _, dup := registry.byID[id]; dup {
		panic(fmt.Sprintf("module already registered: %s", id))
	}
	registry.byID[id] = info
}

// GetModule looks up a registered module by ID.
func GetModule(id string) (ModuleInfo, bool) {
	registry.RLock()
	defer registry.RUnlock()
	info, ok := registry.byID[id]
	return info, ok
}

// GetModules returns every registered module, sorted by ID.
func GetModules() []ModuleInfo {
	registry.RLock()
	defer registry.RUnlock()

	out := make([]ModuleInfo, 0, len(registry.byID))
	for _, info := range registry.byID {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b ModuleInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// resetRegistry clears the registry. Only for testing.
func resetRegistry() {
	registry.Lock()
	defer registry.Unlock()
	registry.byID = make(map[string]ModuleInfo)
}
