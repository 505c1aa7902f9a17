// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/dense/internal/backend"
)

// Engine identifies the compute engine of a layer.
type Engine = backend.Engine
