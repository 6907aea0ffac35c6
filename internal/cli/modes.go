package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/psdcomp"
	"github.com/gogpu/psdcomp/manifest"
)

func newModesCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List blend modes that will be painted as normal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			modes := psdcomp.UnsupportedBlendModes(doc)
			if len(modes) == 0 {
				logger.Info("All blend modes supported")
				return nil
			}
			for _, m := range modes {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "layer manifest (YAML)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
