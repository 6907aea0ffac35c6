package psdcomp

import (
	"strconv"
	"strings"
)

// VisibilityMap holds runtime visibility overrides keyed by layer ID.
// An entry replaces the layer's Hidden flag; IDs not present in the
// document are ignored.
type VisibilityMap map[int]bool

// ResolveVisibility reports whether l is visible.
//
// A layer under an invisible parent is never visible. Otherwise an override
// for l.ID wins, and without one the layer is visible unless Hidden.
func ResolveVisibility(l *Layer, overrides VisibilityMap, parentVisible bool) bool {
	if !parentVisible {
		return false
	}
	if v, ok := overrides[l.ID]; ok {
		return v
	}
	return !l.Hidden
}

// Fingerprint returns the IDs of all visible layers in pre-order, joined
// with ",". Override maps producing the same fingerprint render identically.
func Fingerprint(doc *Document, overrides VisibilityMap) string {
	var sb strings.Builder
	var walk func(layers []*Layer, parentVisible bool)
	walk = func(layers []*Layer, parentVisible bool) {
		for _, l := range layers {
			if l == nil {
				continue
			}
			visible := ResolveVisibility(l, overrides, parentVisible)
			if visible {
				if sb.Len() > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(strconv.Itoa(l.ID))
			}
			walk(l.Children, visible)
		}
	}
	walk(doc.Children, true)
	return sb.String()
}
