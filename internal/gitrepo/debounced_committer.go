package gitrepo

import (
	"context"
	"sync"
	"time"

	"pkt.systems/pslog"
)

const DefaultCommitDebounce = 2 * time.Second

// DebouncedCommitter batches bursts of layout saves into one commit.
type DebouncedCommitter struct {
	dataDir  string
	debounce time.Duration
	opts     AutoSyncOpts
	log      pslog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	closed  bool
}

type DebouncedCommitterOpts struct {
	DataDir  string
	Debounce time.Duration
	Sync     AutoSyncOpts
	Logger   pslog.Logger
}

func NewDebouncedCommitter(opts DebouncedCommitterOpts) *DebouncedCommitter {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultCommitDebounce
	}
	return &DebouncedCommitter{
		dataDir:  opts.DataDir,
		debounce: debounce,
		opts:     opts.Sync,
		log:      opts.Logger,
	}
}

// Notify records a layout change and (re)arms the timer.
func (d *DebouncedCommitter) Notify() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.debounce, d.onTimer)
		return
	}
	d.timer.Reset(d.debounce)
}

// Flush stops the timer and commits any pending change synchronously.
func (d *DebouncedCommitter) Flush(ctx context.Context) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	pending := d.pending && !d.running
	d.pending = false
	d.mu.Unlock()
	if pending {
		d.commit(ctx)
	}
}

func (d *DebouncedCommitter) onTimer() {
	d.mu.Lock()
	if d.running {
		if d.timer != nil {
			d.timer.Reset(d.debounce)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending || d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.commit(context.Background())

	d.mu.Lock()
	d.running = false
	if d.pending && !d.closed && d.timer != nil {
		d.timer.Reset(d.debounce)
	}
	d.mu.Unlock()
}

func (d *DebouncedCommitter) commit(ctx context.Context) {
	committed, pushed, err := AutoCommitAndPush(ctx, d.dataDir, d.opts)
	if d.log == nil {
		return
	}
	if err != nil {
		d.log.Warn("layout auto-commit failed", "dir", d.dataDir, "err", err)
		return
	}
	if committed {
		d.log.Debug("layout committed", "dir", d.dataDir, "pushed", pushed)
	}
}
