package psdcomp

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gogpu/psdcomp/internal/blend"
	"github.com/gogpu/psdcomp/internal/cache"
	intImage "github.com/gogpu/psdcomp/internal/image"
)

// Compositor renders documents and caches the results.
//
// The cache holds whole-document composites keyed by document size, visible
// layer fingerprint, blend-mode flag, viewport and background. It evicts the
// oldest-inserted entry when full; a cache hit does not refresh an entry.
//
// Compositor is safe for concurrent use. Concurrent misses on the same key
// each render, and the later result replaces the earlier one in the cache.
type Compositor struct {
	cache  *cache.FIFO[string, *Surface]
	pool   *intImage.Pool
	paints atomic.Uint64
}

// NewCompositor creates a compositor with an empty cache.
func NewCompositor(opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{
		cache: cache.NewFIFO[string, *Surface](o.cacheSize),
		pool:  intImage.NewPool(o.poolSize),
	}
}

// CompositePSD renders doc and returns the result, reusing a cached surface
// when the resolved visual state was rendered before.
//
// The returned surface is shared with the cache and must not be modified.
func (c *Compositor) CompositePSD(doc *Document, opts ...CompositeOption) (*Surface, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	o, err := applyCompositeOptions(opts)
	if err != nil {
		return nil, err
	}

	vp := Viewport{Width: doc.Width, Height: doc.Height}
	if o.viewport != nil {
		vp = *o.viewport
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil, &AllocationError{Width: vp.Width, Height: vp.Height}
	}

	key := cacheKey(doc, Fingerprint(doc, o.overrides), o)
	log := renderLogger(key)
	if s, ok := c.cache.Get(key); ok {
		log.Debug("composite cache hit")
		return s, nil
	}

	log.Debug("rendering composite",
		slog.Int("width", vp.Width), slog.Int("height", vp.Height))
	start := time.Now()

	if o.applyBlendModes {
		if modes := UnsupportedBlendModes(doc); len(modes) > 0 {
			log.Warn("unsupported blend modes painted as normal", slog.Any("modes", modes))
		}
	}

	target, err := NewSurface(vp.Width, vp.Height)
	if err != nil {
		return nil, err
	}
	if o.background != nil {
		target.Fill(o.background)
	}

	p := &pass{
		overrides:       o.overrides,
		applyBlendModes: o.applyBlendModes,
		dx:              -vp.X,
		dy:              -vp.Y,
		pool:            c.pool,
		paints:          &c.paints,
	}
	if err := p.renderSiblings(doc.Children, target.buf, true); err != nil {
		return nil, fmt.Errorf("psdcomp: composite: %w", err)
	}

	c.cache.Set(key, target)
	log.Debug("composite done", slog.Duration("elapsed", time.Since(start)))
	return target, nil
}

// ClearCache drops every cached composite.
func (c *Compositor) ClearCache() {
	c.cache.Clear()
	Logger().Info("compositor cache cleared")
}

// Stats describes cache usage and paint activity.
type Stats struct {
	Len       int     `json:"len"`
	Capacity  int     `json:"capacity"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	Evictions uint64  `json:"evictions"`

	// Paints counts raster draws performed by all renders so far.
	Paints uint64 `json:"paints"`
}

// Stats returns a snapshot of cache and paint counters.
func (c *Compositor) Stats() Stats {
	s := c.cache.Stats()
	return Stats{
		Len:       s.Len,
		Capacity:  s.Capacity,
		Hits:      s.Hits,
		Misses:    s.Misses,
		HitRate:   s.HitRate,
		Evictions: s.Evictions,
		Paints:    c.paints.Load(),
	}
}

// cacheKey builds "WxH_fingerprint_flag", suffixed with the viewport and
// background when they are set.
func cacheKey(doc *Document, fingerprint string, o compositeOptions) string {
	key := fmt.Sprintf("%dx%d_%s_%t", doc.Width, doc.Height, fingerprint, o.applyBlendModes)
	if v := o.viewport; v != nil {
		key += fmt.Sprintf("_vp%d,%d,%dx%d", v.X, v.Y, v.Width, v.Height)
	}
	if o.background != nil {
		bg := color.NRGBAModel.Convert(o.background).(color.NRGBA)
		key += fmt.Sprintf("_bg%02x%02x%02x%02x", bg.R, bg.G, bg.B, bg.A)
	}
	return key
}

// CompositeSingleLayer renders one layer on its own, sized to its bounding
// box. The background is painted first, then the layer's raster at the
// origin. Visibility, opacity and blend mode are ignored, as are children.
// Only the background option applies.
func CompositeSingleLayer(l *Layer, opts ...CompositeOption) (*Surface, error) {
	if l == nil {
		return nil, ErrNilLayer
	}
	o, err := applyCompositeOptions(opts)
	if err != nil {
		return nil, err
	}

	out, err := NewSurface(l.Width(), l.Height())
	if err != nil {
		return nil, err
	}
	if o.background != nil {
		out.Fill(o.background)
	}
	if l.Raster != nil {
		blend.Draw(out.buf, l.Raster.buf, 0, 0, 1, blend.BlendSourceOver)
	}
	return out, nil
}

// pass holds the state of one render.
type pass struct {
	overrides       VisibilityMap
	applyBlendModes bool

	// dx, dy translate document coordinates to target coordinates.
	dx, dy int

	pool   *intImage.Pool
	paints *atomic.Uint64

	// forceIsolation renders every group through a scratch surface.
	forceIsolation bool
}

// composite paints one layer, or the subtree of a group, onto target.
func (p *pass) composite(l *Layer, target *intImage.Buf, parentVisible bool) error {
	if l == nil || !ResolveVisibility(l, p.overrides, parentVisible) {
		return nil
	}

	alpha := l.EffectiveAlpha()
	mode := operator(l.BlendMode, p.applyBlendModes)

	if l.IsGroup() {
		if mode == BlendNormal && alpha >= 1 && !p.forceIsolation {
			return p.renderSiblings(l.Children, target, true)
		}
		scratch, err := p.pool.Get(target.Width(), target.Height())
		if err != nil {
			return err
		}
		defer p.pool.Put(scratch)

		if err := p.renderSiblings(l.Children, scratch, true); err != nil {
			return err
		}
		p.draw(target, scratch, 0, 0, alpha, mode)
		return nil
	}

	if l.Raster == nil {
		return nil
	}
	p.draw(target, l.Raster.buf, l.Left+p.dx, l.Top+p.dy, alpha, mode)
	return nil
}

func (p *pass) draw(dst, src *intImage.Buf, x, y int, alpha float64, mode BlendMode) {
	blend.Draw(dst, src, x, y, alpha, mode)
	if p.paints != nil {
		p.paints.Add(1)
	}
}
