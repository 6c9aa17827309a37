package mutate

import "launchpad-cli/internal/model"

// DropAction is what a drag-and-drop gesture resolves to.
type DropAction string

const (
	DropMove  DropAction = "move"
	DropGroup DropAction = "group"
)

// groupInset is the fraction trimmed from each side of the destination bounds.
// 0.2 per side leaves the central 60% of width and height as the group zone.
const groupInset = 0.2

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

func (r Rect) Contains(p Point) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ClassifyDrop decides between grouping and reordering for a drop at p onto a
// destination drawn at bounds.
func ClassifyDrop(bounds Rect, p Point) DropAction {
	center := bounds.Inset(bounds.W*groupInset, bounds.H*groupInset)
	if center.Contains(p) {
		return DropGroup
	}
	return DropMove
}

// Drop applies the operation ClassifyDrop picks.
func Drop(c model.Collection, srcID, dstID string, bounds Rect, p Point, folderName string) (model.Collection, DropAction, bool) {
	action := ClassifyDrop(bounds, p)
	switch action {
	case DropGroup:
		out, changed := Group(c, srcID, dstID, folderName)
		return out, action, changed
	default:
		out, changed := Move(c, srcID, dstID)
		return out, action, changed
	}
}
