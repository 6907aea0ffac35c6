// Package manifest loads layer trees described in YAML.
//
// A manifest stands in for a decoded PSD: it lists layers bottom to top,
// nests groups under children, and points leaves at pre-rendered image files.
//
//	width: 800
//	height: 600
//	layers:
//	  - name: Background
//	    image: bg.png
//	  - name: Shading
//	    blend: multiply
//	    opacity: 0.6
//	    children:
//	      - name: Shadow
//	        image: shadow.webp
//	        left: 40
//	        top: 120
//	      - name: Highlight
//	        image: light.png
//	        clipping: true
//
// Image paths are resolved relative to the manifest file. A leaf's right and
// bottom edges come from its image size.
package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/psdcomp"
)

var (
	// ErrDuplicateID is returned when two layers declare the same id.
	ErrDuplicateID = errors.New("manifest: duplicate layer id")

	// ErrNoSize is returned when the document size is neither declared nor
	// derivable from layer bounds.
	ErrNoSize = errors.New("manifest: document has no size")
)

// File is the YAML document root.
type File struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Layers []Layer `yaml:"layers"`
}

// Layer is one YAML layer entry.
type Layer struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Hidden      bool     `yaml:"hidden"`
	Opacity     *float64 `yaml:"opacity"`
	FillOpacity *float64 `yaml:"fill_opacity"`
	Blend       string   `yaml:"blend"`
	Clipping    bool     `yaml:"clipping"`

	Image  string `yaml:"image"`
	Left   int    `yaml:"left"`
	Top    int    `yaml:"top"`
	Right  int    `yaml:"right"`
	Bottom int    `yaml:"bottom"`

	Children []Layer `yaml:"children"`
}

// Load reads and decodes the manifest at path.
func Load(path string) (*psdcomp.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes manifest data. Image paths are resolved against baseDir.
//
// Layers without an id get the next unused id in pre-order.
func Parse(data []byte, baseDir string) (*psdcomp.Document, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}

	b := &builder{baseDir: baseDir, used: make(map[int]bool)}
	if err := b.collectIDs(f.Layers); err != nil {
		return nil, err
	}

	children, err := b.layers(f.Layers)
	if err != nil {
		return nil, err
	}
	doc := &psdcomp.Document{Width: f.Width, Height: f.Height, Children: children}

	if doc.Width <= 0 || doc.Height <= 0 {
		w, h := extent(doc)
		if doc.Width <= 0 {
			doc.Width = w
		}
		if doc.Height <= 0 {
			doc.Height = h
		}
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, ErrNoSize
	}

	psdcomp.Logger().Debug("manifest parsed",
		slog.Int("width", doc.Width),
		slog.Int("height", doc.Height),
		slog.Int("layers", b.count))
	return doc, nil
}

type builder struct {
	baseDir string
	used    map[int]bool
	nextID  int
	count   int
}

func (b *builder) collectIDs(layers []Layer) error {
	for i := range layers {
		l := &layers[i]
		if l.ID != 0 {
			if b.used[l.ID] {
				return fmt.Errorf("%w: %d", ErrDuplicateID, l.ID)
			}
			b.used[l.ID] = true
		}
		if err := b.collectIDs(l.Children); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) assignID() int {
	for {
		b.nextID++
		if !b.used[b.nextID] {
			b.used[b.nextID] = true
			return b.nextID
		}
	}
}

func (b *builder) layers(in []Layer) ([]*psdcomp.Layer, error) {
	out := make([]*psdcomp.Layer, 0, len(in))
	for i := range in {
		l, err := b.layer(&in[i])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (b *builder) layer(in *Layer) (*psdcomp.Layer, error) {
	b.count++
	id := in.ID
	if id == 0 {
		id = b.assignID()
	}

	l := &psdcomp.Layer{
		ID:          id,
		Name:        in.Name,
		Hidden:      in.Hidden,
		Opacity:     in.Opacity,
		FillOpacity: in.FillOpacity,
		BlendMode:   in.Blend,
		Clipping:    in.Clipping,
		Left:        in.Left,
		Top:         in.Top,
		Right:       in.Right,
		Bottom:      in.Bottom,
	}

	if in.Image != "" {
		path := in.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}
		raster, err := psdcomp.LoadSurface(path)
		if err != nil {
			return nil, fmt.Errorf("manifest: layer %q: %w", in.Name, err)
		}
		l.Raster = raster
		l.Right = l.Left + raster.Width()
		l.Bottom = l.Top + raster.Height()
	}

	if len(in.Children) > 0 {
		children, err := b.layers(in.Children)
		if err != nil {
			return nil, err
		}
		l.Children = children
	}
	return l, nil
}

// extent returns the largest right and bottom edge of any layer.
func extent(doc *psdcomp.Document) (w, h int) {
	doc.Walk(func(l *psdcomp.Layer) bool {
		w = max(w, l.Right)
		h = max(h, l.Bottom)
		return true
	})
	return w, h
}
