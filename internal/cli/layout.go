package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/contactsheet"
)

// NewLayoutCmd creates the layout command that prints the resolved grid
// without building anything
func NewLayoutCmd() *cobra.Command {
	var manifestPath string
	var grid gridFlags

	cmd := &cobra.Command{
		Use:   "layout [files...]",
		Short: "Show the grid a build would use",
		Long: `Resolve columns, rows and output size for the given images and print them.

Only the first image is read, and only its header.`,
		Example: `  contactsheet layout *.png
  contactsheet layout *.png --columns 4 --width 1600`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			sheet, err := newSheet(cmd, args, m, &grid)
			if err != nil {
				return err
			}
			l, err := sheet.Layout()
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), sheet.Len(), l)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest listing images and settings")
	addGridFlags(cmd, &grid)

	return cmd
}

func printLayout(w io.Writer, images int, l contactsheet.Layout) {
	fmt.Fprintf(w, "images:  %d\n", images)
	fmt.Fprintf(w, "columns: %d\n", l.Columns)
	fmt.Fprintf(w, "rows:    %d\n", l.Rows)
	fmt.Fprintf(w, "tile:    %d\n", l.TileSize)
	fmt.Fprintf(w, "size:    %s\n", l)
}
