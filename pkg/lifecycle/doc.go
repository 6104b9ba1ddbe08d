// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package lifecycle binds listening sockets, resolves the address actually
// bound by the operating system and publishes the serving and closing
// transitions of each server to a single replaceable event sink.
package lifecycle
