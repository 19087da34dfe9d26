package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/contactsheet"
	"github.com/yyyoichi/contactsheet/internal/config"
)

// NewBuildCmd creates the build command that writes a contact sheet
func NewBuildCmd() *cobra.Command {
	var output string
	var manifestPath string
	var grid gridFlags
	var style styleFlags

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compose images into a contact sheet",
		Long: `Compose the given images, in order, into a single grid image.

The output format follows the extension of the output path (png, jpg, jpeg,
bmp or gif). Files with any other extension are skipped.`,
		Example: `  # Four photos on a 2x2 grid at native size
  contactsheet build a.png b.png c.png d.png -o sheet.png

  # Three columns scaled down to 900 pixels
  contactsheet build shots/*.jpg --columns 3 --width 900 -o sheet.jpg

  # Everything from a manifest, with a white background
  contactsheet build --manifest sheet.yaml --transparency none --fill "#ffffff"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			sheet, err := newSheet(cmd, args, m, &grid)
			if err != nil {
				return err
			}
			opts, err := style.options(cmd, cfg, m)
			if err != nil {
				return err
			}
			b, err := contactsheet.New(opts...)
			if err != nil {
				return err
			}

			out := cfg.Output
			if m != nil && m.Output != "" {
				out = m.Output
			}
			if cmd.Flags().Changed("output") {
				out = output
			}

			snap, err := sheet.Snapshot()
			if err != nil {
				return err
			}
			slog.Info("Building contact sheet", "images", len(snap.Items), "columns", snap.Layout.Columns, "rows", snap.Layout.Rows, "width", snap.Layout.Width)
			if err := b.BuildAndSave(cmd.Context(), snap.Items, snap.Layout, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d images, %s\n", out, len(snap.Items), snap.Layout)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: contactsheet.png)")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest listing images and settings")
	addGridFlags(cmd, &grid)
	addStyleFlags(cmd, &style)

	return cmd
}

func loadManifest(path string) (*config.Manifest, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadManifest(path)
}

// newSheet adds the images to a new Sheet and then applies the grid, since
// adding images resets it.
func newSheet(cmd *cobra.Command, args []string, m *config.Manifest, grid *gridFlags) (*contactsheet.Sheet, error) {
	sheet := contactsheet.NewSheet()
	sheet.Add(imagePaths(args, m)...)
	if err := grid.apply(cmd, sheet, m); err != nil {
		return nil, err
	}
	return sheet, nil
}
