// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package module

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Module is the interface of module.
type Module interface {
	// ModuleInfo returns the module information.
	ModuleInfo() ModuleInfo
}

// ModuleID is the module id.
type ModuleID string

// Namespace returns the module namespace, the ID part before the last dot.
func (id ModuleID) Namespace() string {
	i := strings.LastIndex(string(id), ".")
	if i < 0 {
		return ""
	}
	return string(id)[:i]
}

// Name returns the module name, the ID part after the last dot.
func (id ModuleID) Name() string {
	return string(id)[strings.LastIndex(string(id), ".")+1:]
}

// ModuleInfo implements the module information.
type ModuleInfo struct {
	// ID is the module ID.
	ID ModuleID
	// NewInstance returns a new module instance.
	NewInstance func() Module
}

var (
	modules     = make(map[ModuleID]ModuleInfo)
	modulesLock sync.RWMutex
)

// Register registers a module. It panics if the module ID is already taken.
func Register(module Module) {
	modulesLock.Lock()
	defer modulesLock.Unlock()

	info := module.ModuleInfo()
	if _, ok := modules[info.ID]; ok {
		panic(fmt.Sprintf("module '%s' already registered", info.ID))
	}
	modules[info.ID] = info
}

// Unregister unregisters a module.
func Unregister(module Module) {
	modulesLock.Lock()
	defer modulesLock.Unlock()

	delete(modules, module.ModuleInfo().ID)
}

// Lookup returns the module information if found.
func Lookup(id ModuleID) (ModuleInfo, error) {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	mi, ok := modules[id]
	if !ok {
		return ModuleInfo{}, fmt.Errorf("module '%s' not registered", id)
	}

	return mi, nil
}

// List returns the sorted IDs of the modules registered in a namespace.
func List(namespace string) []ModuleID {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	var ids []ModuleID
	for id := range modules {
		if id.Namespace() == namespace {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
