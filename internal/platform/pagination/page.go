// Package pagination normalizes offset/limit windows for list views.
package pagination

// LimitConfig configures limit normalization.
type LimitConfig struct {
	Default int
	Max     int
}

// ClampLimit applies defaults and caps for list limits.
func ClampLimit(value int, cfg LimitConfig) int {
	limit := value
	if limit <= 0 {
		limit = cfg.Default
	}
	if cfg.Max > 0 && limit > cfg.Max {
		limit = cfg.Max
	}
	if limit <= 0 {
		limit = 1
	}
	return limit
}

// Window slices [offset, offset+limit) out of a list of length total,
// returning the clamped bounds. An offset past the end yields an empty
// window at total.
func Window(offset, limit, total int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end = offset + limit
	if end > total || end < offset {
		end = total
	}
	return offset, end
}
