package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// Tensor is a linear typed array in a GPU buffer (spec.md §4.2).
type Tensor = engine.Tensor
