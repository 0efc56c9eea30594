package kompute

import "github.com/imaginationtech/kompute/internal/engine"

// Image is a 2D typed image with 1, 2 or 4 channels (spec.md §4.3).
type Image = engine.Image
