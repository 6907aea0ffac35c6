package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/psdcomp"
	"github.com/gogpu/psdcomp/manifest"
)

// renderOpts holds the render command flags.
type renderOpts struct {
	manifest   string
	out        string
	format     string
	quality    float64
	background string
	viewport   string
	hide, show []int
	noBlend    bool
	layer      int
	maxSize    int

	// qualitySet records whether --quality was given, since 0 is valid.
	qualitySet bool
}

// resolveQuality returns the --quality flag when given, else the config.
func (o *renderOpts) resolveQuality(cfg *Config) float64 {
	if o.qualitySet {
		return o.quality
	}
	return *cfg.Render.Quality
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite a manifest into an image file",
		Long: `Composite every visible layer of a manifest into one image.

With --layer, only that layer's raster is rendered at its own size,
ignoring visibility, opacity and blend mode.`,
		Example: `  psdcomp render -m doc.yaml -o out.png
  psdcomp render -m doc.yaml -o out.jpg --quality 0.8 --background white
  psdcomp render -m doc.yaml -o crop.png --viewport 100,100,256,256 --hide 4,7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.qualitySet = cmd.Flags().Changed("quality")
			return runRender(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.manifest, "manifest", "m", "", "layer manifest (YAML)")
	f.StringVarP(&opts.out, "out", "o", "", "output file, - for stdout")
	f.StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, bmp, tiff (default from extension)")
	f.Float64VarP(&opts.quality, "quality", "q", 0, "JPEG quality in [0, 1] (default from config, 0.92)")
	f.StringVar(&opts.background, "background", "", "background color, e.g. #fff or white")
	f.StringVar(&opts.viewport, "viewport", "", "render only x,y,width,height")
	f.IntSliceVar(&opts.hide, "hide", nil, "layer ids to hide")
	f.IntSliceVar(&opts.show, "show", nil, "layer ids to show")
	f.BoolVar(&opts.noBlend, "no-blend", false, "paint every layer as normal")
	f.IntVar(&opts.layer, "layer", 0, "render only the layer with this id")
	f.IntVar(&opts.maxSize, "max-size", 0, "scale the output to fit this many pixels")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRender(ctx context.Context, stdout io.Writer, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	prog := newProgress(logger)

	doc, err := manifest.Load(opts.manifest)
	if err != nil {
		return err
	}
	logger.Debug("Loaded manifest", "path", opts.manifest, "width", doc.Width, "height", doc.Height)

	format, err := resolveFormat(opts.format, opts.out, cfg.Render.Format)
	if err != nil {
		return err
	}
	background := firstNonEmpty(opts.background, cfg.Render.Background)

	var out *psdcomp.Surface
	if opts.layer != 0 {
		l, ok := doc.FindLayer(opts.layer)
		if !ok {
			return fmt.Errorf("layer %d not found", opts.layer)
		}
		out, err = psdcomp.CompositeSingleLayer(l, psdcomp.WithBackgroundString(background))
	} else {
		params := compositeParams{
			hide:       opts.hide,
			show:       opts.show,
			background: background,
			viewport:   opts.viewport,
			blendModes: *cfg.Render.BlendModes && !opts.noBlend,
		}
		var compOpts []psdcomp.CompositeOption
		compOpts, err = params.options()
		if err != nil {
			return err
		}
		out, err = cfg.newCompositor().CompositePSD(doc, compOpts...)
	}
	if err != nil {
		return err
	}

	maxSize := opts.maxSize
	if maxSize == 0 {
		maxSize = cfg.Render.MaxSize
	}
	if maxSize > 0 {
		if out, err = out.Fit(maxSize); err != nil {
			return err
		}
	}

	data, err := psdcomp.Encode(ctx, out, format, opts.resolveQuality(cfg))
	if err != nil {
		return err
	}

	if opts.out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	prog.done(fmt.Sprintf("Wrote %s (%dx%d %s)", opts.out, out.Width(), out.Height(), format))
	return nil
}
