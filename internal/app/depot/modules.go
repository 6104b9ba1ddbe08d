// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depot

import (
	_ "github.com/bhuisgen/depot/pkg/modules/services/banner"
	_ "github.com/bhuisgen/depot/pkg/modules/services/metrics"
)
