package search

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"launchpad-cli/internal/model"
)

const DefaultDelay = 500 * time.Millisecond

// Index debounces a live query. The raw query follows every keystroke; the
// debounced query only catches up once the raw one has been stable for the
// delay. An empty query applies immediately.
type Index struct {
	delay time.Duration

	mu        sync.Mutex
	raw       string
	debounced string
	gen       uint64
	timer     *time.Timer
	closed    bool

	updates chan string
}

func New(delay time.Duration) *Index {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Index{delay: delay, updates: make(chan string, 16)}
}

// SetQuery records q as the raw query and schedules the debounced update.
func (ix *Index) SetQuery(q string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return
	}
	ix.raw = q
	ix.gen++
	if ix.timer != nil {
		ix.timer.Stop()
		ix.timer = nil
	}
	if q == "" {
		ix.applyLocked("")
		return
	}
	gen := ix.gen
	ix.timer = time.AfterFunc(ix.delay, func() { ix.fire(gen, q) })
}

func (ix *Index) fire(gen uint64, q string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed || gen != ix.gen || ix.raw != q {
		return
	}
	ix.timer = nil
	ix.applyLocked(q)
}

func (ix *Index) applyLocked(q string) {
	if ix.debounced == q {
		return
	}
	ix.debounced = q
	select {
	case ix.updates <- q:
	default:
	}
}

// Query is the raw, undebounced query.
func (ix *Index) Query() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.raw
}

func (ix *Index) Debounced() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.debounced
}

// Updates receives every debounced value as it is applied. Values are dropped
// when the buffer is full; Debounced is always authoritative.
func (ix *Index) Updates() <-chan string {
	return ix.updates
}

// Close cancels any pending update.
func (ix *Index) Close() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.closed = true
	ix.gen++
	if ix.timer != nil {
		ix.timer.Stop()
		ix.timer = nil
	}
}

// Filter applies the debounced query to c.
func (ix *Index) Filter(c model.Collection) model.Collection {
	return Match(c, ix.Debounced())
}

// Match returns the top-level items whose name contains query, ignoring case.
// Folder contents are not searched. An empty query matches everything.
func Match(c model.Collection, query string) model.Collection {
	if query == "" {
		return c
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := model.Collection{}
	for _, it := range c {
		if strings.Contains(fold.String(it.ItemName()), needle) {
			out = append(out, it)
		}
	}
	return out
}
