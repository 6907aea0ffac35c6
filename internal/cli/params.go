package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/psdcomp"
)

// compositeParams are the knobs shared by the render command and the
// preview server.
type compositeParams struct {
	hide, show []int
	background string
	viewport   string
	blendModes bool
}

// options converts p into compositor options.
func (p compositeParams) options() ([]psdcomp.CompositeOption, error) {
	opts := []psdcomp.CompositeOption{
		psdcomp.WithBlendModes(p.blendModes),
		psdcomp.WithBackgroundString(p.background),
	}
	if m := overrides(p.hide, p.show); len(m) > 0 {
		opts = append(opts, psdcomp.WithLayerVisibility(m))
	}
	if p.viewport != "" {
		vp, err := parseViewport(p.viewport)
		if err != nil {
			return nil, err
		}
		opts = append(opts, psdcomp.WithViewport(vp))
	}
	return opts, nil
}

// overrides builds a visibility map. Shown ids win over hidden ones.
func overrides(hide, show []int) psdcomp.VisibilityMap {
	if len(hide) == 0 && len(show) == 0 {
		return nil
	}
	m := make(psdcomp.VisibilityMap, len(hide)+len(show))
	for _, id := range hide {
		m[id] = false
	}
	for _, id := range show {
		m[id] = true
	}
	return m
}

// maxViewportSide bounds each viewport dimension. It matches the largest
// document side editors write (PSB).
const maxViewportSide = 300000

// parseViewport parses "x,y,width,height".
func parseViewport(s string) (psdcomp.Viewport, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return psdcomp.Viewport{}, fmt.Errorf("viewport %q: want x,y,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return psdcomp.Viewport{}, fmt.Errorf("viewport %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return psdcomp.Viewport{}, fmt.Errorf("viewport %q: width and height must be positive", s)
	}
	if v[2] > maxViewportSide || v[3] > maxViewportSide {
		return psdcomp.Viewport{}, fmt.Errorf("viewport %q: width and height must not exceed %d", s, maxViewportSide)
	}
	return psdcomp.Viewport{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseIDs parses a comma-separated id list. The empty string yields nil.
func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("layer id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveFormat picks the output format from the flag, then the output file
// extension, then the configured default.
func resolveFormat(flag, out, fallback string) (psdcomp.Format, error) {
	switch {
	case flag != "":
		return psdcomp.ParseFormat(flag)
	case out != "" && out != "-" && filepath.Ext(out) != "":
		return psdcomp.ParseFormat(filepath.Ext(out))
	}
	return psdcomp.ParseFormat(fallback)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
