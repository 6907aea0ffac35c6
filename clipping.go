package psdcomp

import (
	"github.com/gogpu/psdcomp/internal/blend"
	intImage "github.com/gogpu/psdcomp/internal/image"
)

// renderSiblings paints an ordered sibling list onto target, bottom to top.
//
// Each non-clipping layer followed by one or more clipping layers forms a
// clip run: the clipping layers are painted on a scratch surface, masked by
// the base raster's alpha, and laid over the base.
func (p *pass) renderSiblings(siblings []*Layer, target *intImage.Buf, parentVisible bool) error {
	for i := 0; i < len(siblings); {
		base := siblings[i]

		// A clipping layer with no base below it paints unmasked.
		if base == nil || base.Clipping {
			if err := p.composite(base, target, parentVisible); err != nil {
				return err
			}
			i++
			continue
		}

		j := i + 1
		for j < len(siblings) && siblings[j] != nil && siblings[j].Clipping {
			j++
		}
		members := siblings[i+1 : j]

		var err error
		if len(members) == 0 {
			err = p.composite(base, target, parentVisible)
		} else {
			err = p.renderClipRun(base, members, target, parentVisible)
		}
		if err != nil {
			return err
		}
		i = j
	}
	return nil
}

// renderClipRun paints base and the members clipped to it.
//
// Members follow the base's visibility: a hidden base hides the whole run.
// A base without a raster, including a group base, has an empty footprint,
// so its members are masked out.
func (p *pass) renderClipRun(base *Layer, members []*Layer, target *intImage.Buf, parentVisible bool) error {
	if !ResolveVisibility(base, p.overrides, parentVisible) {
		return nil
	}

	scratch, err := p.pool.Get(target.Width(), target.Height())
	if err != nil {
		return err
	}
	defer p.pool.Put(scratch)

	for _, m := range members {
		if err := p.composite(m, scratch, parentVisible); err != nil {
			return err
		}
	}

	var mask *intImage.Buf
	if !base.IsGroup() && base.Raster != nil {
		mask = base.Raster.buf
	}
	blend.Mask(scratch, mask, base.Left+p.dx, base.Top+p.dy)

	if err := p.composite(base, target, parentVisible); err != nil {
		return err
	}
	p.draw(target, scratch, 0, 0, 1, BlendNormal)
	return nil
}
