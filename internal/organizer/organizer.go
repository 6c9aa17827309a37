package organizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pkt.systems/pslog"

	"launchpad-cli/internal/launch"
	"launchpad-cli/internal/logx"
	"launchpad-cli/internal/model"
	"launchpad-cli/internal/mutate"
	"launchpad-cli/internal/scan"
	"launchpad-cli/internal/store"
)

// LayoutStore persists the collection. store.Store implements it.
type LayoutStore interface {
	LoadLayout() (model.Collection, error)
	SaveLayout(model.Collection) error
}

// UsageRecorder receives one record per launch. store.Store implements it.
type UsageRecorder interface {
	RecordLaunch(ctx context.Context, rec store.LaunchRecord) error
}

type Options struct {
	Store    LayoutStore
	Usage    UsageRecorder
	Launcher launch.Launcher
	Scan     scan.Options

	// FolderName names folders created by grouping two apps.
	FolderName string

	Logger pslog.Logger
}

var ErrNotFound = errors.New("item not found")

// Organizer is the single writer of the layout. Every successful mutation is
// saved before the call returns; a failed save is logged and the in-memory
// change stands.
type Organizer struct {
	opts Options
	log  pslog.Logger

	mu       sync.Mutex
	items    model.Collection
	inflight int

	changes chan struct{}
}

// Open loads the persisted layout. A missing or unreadable layout is not an
// error: the organizer starts empty and Restored reports false.
func Open(ctx context.Context, opts Options) (*Organizer, bool) {
	log := opts.Logger
	if log == nil {
		log = logx.Ctx(ctx)
	}
	o := &Organizer{opts: opts, log: log, changes: make(chan struct{}, 1)}
	if opts.Store == nil {
		return o, false
	}
	items, err := opts.Store.LoadLayout()
	switch {
	case err == nil:
		o.items = items
		log.Debug("layout loaded", "items", len(items))
		return o, true
	case errors.Is(err, store.ErrNoLayout):
		log.Info("no saved layout, starting empty")
	default:
		var de *store.DecodeError
		if errors.As(err, &de) {
			log.Warn("saved layout is unusable, starting empty", "path", de.Path, "err", de.Err)
		} else {
			log.Warn("layout load failed, starting empty", "err", err)
		}
	}
	o.items = model.Collection{}
	return o, false
}

// Items returns a snapshot of the current layout.
func (o *Organizer) Items() model.Collection {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.items.Clone()
}

// Changes signals after each applied mutation. Signals coalesce.
func (o *Organizer) Changes() <-chan struct{} {
	return o.changes
}

// Loading reports whether a background scan is in flight.
func (o *Organizer) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inflight > 0
}

func (o *Organizer) folderName() string {
	if n := strings.TrimSpace(o.opts.FolderName); n != "" {
		return n
	}
	return model.DefaultFolderName
}

// apply runs op against the current layout and commits the result when it
// reports a change.
func (o *Organizer) apply(name string, op func(model.Collection) (model.Collection, bool)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, changed := op(o.items)
	if !changed {
		o.log.Debug("no-op", "op", name)
		return false
	}
	o.commitLocked(name, next)
	return true
}

func (o *Organizer) commitLocked(name string, next model.Collection) {
	o.items = next
	if o.opts.Store != nil {
		if err := o.opts.Store.SaveLayout(next); err != nil {
			o.log.Error("layout save failed", "op", name, "err", err)
		}
	}
	select {
	case o.changes <- struct{}{}:
	default:
	}
}

func (o *Organizer) RenameFolder(folderID, name string) bool {
	return o.apply("rename", func(c model.Collection) (model.Collection, bool) {
		return mutate.RenameFolder(c, folderID, name)
	})
}

func (o *Organizer) Dissolve(folderID string) bool {
	return o.apply("dissolve", func(c model.Collection) (model.Collection, bool) {
		return mutate.Dissolve(c, folderID)
	})
}

func (o *Organizer) Move(srcID, dstID string) bool {
	return o.apply("move", func(c model.Collection) (model.Collection, bool) {
		return mutate.Move(c, srcID, dstID)
	})
}

func (o *Organizer) Group(srcID, dstID string) bool {
	return o.apply("group", func(c model.Collection) (model.Collection, bool) {
		return mutate.Group(c, srcID, dstID, o.folderName())
	})
}

// Drop classifies the drop point against the target's bounds and then moves or
// groups.
func (o *Organizer) Drop(srcID, dstID string, bounds mutate.Rect, p mutate.Point) (mutate.DropAction, bool) {
	action := mutate.ClassifyDrop(bounds, p)
	changed := o.apply("drop-"+string(action), func(c model.Collection) (model.Collection, bool) {
		next, _, changed := mutate.Drop(c, srcID, dstID, bounds, p, o.folderName())
		return next, changed
	})
	return action, changed
}

// ApplyScan folds scanned apps into the layout and returns how many were added.
func (o *Organizer) ApplyScan(apps []model.App) int {
	var added int
	o.apply("merge", func(c model.Collection) (model.Collection, bool) {
		var next model.Collection
		next, added = mutate.Merge(c, apps)
		return next, added > 0
	})
	if added > 0 {
		o.log.Info("new apps merged", "added", added)
	}
	return added
}

// Replace swaps in a whole layout, e.g. from an import. The collection must
// be valid.
func (o *Organizer) Replace(c model.Collection) error {
	if err := model.Validate(c); err != nil {
		return fmt.Errorf("replace layout: %w", err)
	}
	next := c.Clone()
	if next == nil {
		next = model.Collection{}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.commitLocked("replace", next)
	return nil
}

// Rescan scans synchronously and merges the result.
func (o *Organizer) Rescan(ctx context.Context) (int, error) {
	res := <-o.Refresh(ctx)
	return res.Added, res.Err
}

type RefreshResult struct {
	Found int
	Added int
	Err   error
}

// Refresh starts a background scan. When it completes, the result is merged
// and reported once on the returned channel. A cancelled scan merges nothing.
func (o *Organizer) Refresh(ctx context.Context) <-chan RefreshResult {
	o.mu.Lock()
	o.inflight++
	o.mu.Unlock()

	out := make(chan RefreshResult, 1)
	scanned := scan.Start(pslog.ContextWithLogger(ctx, o.log), o.opts.Scan)
	go func() {
		defer close(out)
		started := time.Now()
		res := <-scanned
		var added int
		if res.Err == nil {
			added = o.ApplyScan(res.Apps)
		} else {
			o.log.Info("scan cancelled", "err", res.Err)
		}
		o.mu.Lock()
		o.inflight--
		o.mu.Unlock()
		if res.Err == nil && added == 0 {
			// Loading changed even though the layout did not.
			select {
			case o.changes <- struct{}{}:
			default:
			}
		}
		o.log.Debug("scan finished", "found", len(res.Apps), "added", added, "elapsed", time.Since(started).String())
		out <- RefreshResult{Found: len(res.Apps), Added: added, Err: res.Err}
	}()
	return out
}

// Launch requests a start of the app with the given id, top-level or inside a
// folder, and records the launch in the usage history.
func (o *Organizer) Launch(ctx context.Context, appID string) (model.App, error) {
	o.mu.Lock()
	a, ok := o.items.FindApp(appID)
	o.mu.Unlock()
	if !ok {
		return model.App{}, fmt.Errorf("launch %s: %w", appID, ErrNotFound)
	}
	log := logx.WithItem(o.log, a)
	if o.opts.Launcher == nil {
		return a, errors.New("launch: no launcher configured")
	}
	if err := o.opts.Launcher.Launch(pslog.ContextWithLogger(ctx, log), a.Location); err != nil {
		log.Warn("launch failed", "err", err)
		return a, err
	}
	log.Info("launched")
	if o.opts.Usage != nil {
		rec := store.LaunchRecord{AppID: a.ID, Name: a.Name, Location: a.Location, At: time.Now()}
		if err := o.opts.Usage.RecordLaunch(ctx, rec); err != nil {
			log.Warn("usage record failed", "err", err)
		}
	}
	return a, nil
}
