package query

import (
	"sync"
	"sync/atomic"
)

// DefaultPageSize is how many videos one page adds to the view.
const DefaultPageSize = 12

// Pager tracks how much of a result set is visible. The window only
// grows; any change to filter, search or sort must Reset it.
type Pager struct {
	mu       sync.Mutex
	pageSize int
	visible  int

	// growing serializes overlapping grow triggers: while one is in
	// flight the others are absorbed without adding a page.
	growing atomic.Bool
}

// NewPager creates a Pager showing one page.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		pageSize: pageSize,
		visible:  pageSize,
	}
}

// Reset shrinks the window back to a single page.
func (p *Pager) Reset() {
	p.mu.Lock()
	p.visible = p.pageSize
	p.mu.Unlock()
}

// Visible returns how many of total results should be shown.
func (p *Pager) Visible(total int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return clamp(p.visible, total)
}

// Grow extends the window by one page, clamped to the result length,
// and returns the new visible count. An overlapping call while a grow
// is in flight is absorbed: it returns the current count unchanged.
func (p *Pager) Grow(total int) int {
	if !p.growing.CompareAndSwap(false, true) {
		return p.Visible(total)
	}
	defer p.growing.Store(false)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visible < total {
		p.visible += p.pageSize
	}
	return clamp(p.visible, total)
}

// Exhausted reports whether the whole result set is already visible.
func (p *Pager) Exhausted(total int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible >= total
}

func clamp(visible, total int) int {
	if total < visible {
		return total
	}
	return visible
}
