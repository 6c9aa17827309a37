package logx

import (
	"context"

	"launchpad-cli/internal/model"

	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithItem annotates the logger with an item's id, kind and name.
func WithItem(log pslog.Logger, it model.Item) pslog.Logger {
	if it == nil {
		return log
	}
	log = log.With("item", it.ItemID(), "kind", string(it.Kind()))
	if name := it.ItemName(); name != "" {
		log = log.With("name", name)
	}
	if a, ok := it.(model.App); ok && a.Location != "" {
		log = log.With("location", a.Location)
	}
	return log
}

// WithLocation annotates the logger with a bundle or root path when available.
func WithLocation(log pslog.Logger, path string) pslog.Logger {
	if path != "" {
		log = log.With("location", path)
	}
	return log
}

// WithRoot annotates the logger with the scan root being walked.
func WithRoot(log pslog.Logger, root string) pslog.Logger {
	if root != "" {
		log = log.With("root", root)
	}
	return log
}
