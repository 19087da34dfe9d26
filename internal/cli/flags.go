package cli

import (
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/contactsheet"
	"github.com/yyyoichi/contactsheet/internal/config"
)

// gridFlags are the three layout fields. They are kept as text so that a
// blank value means "derive it" exactly like an empty field in the editor.
type gridFlags struct {
	columns string
	rows    string
	width   string
}

func addGridFlags(cmd *cobra.Command, g *gridFlags) {
	cmd.Flags().StringVar(&g.columns, "columns", "", "Number of columns (default: round(sqrt(images)))")
	cmd.Flags().StringVar(&g.rows, "rows", "", "Number of rows (default: enough to hold every image)")
	cmd.Flags().StringVar(&g.width, "width", "", "Output width in pixels (default: first image width x columns)")
}

// apply sets the grid on s. Manifest values come first and flags given on
// the command line override them. Columns go first since setting them
// clears rows and width.
func (g *gridFlags) apply(cmd *cobra.Command, s *contactsheet.Sheet, m *config.Manifest) error {
	var columns, rows, width *int
	if m != nil {
		columns, rows, width = m.Columns, m.Rows, m.Width
	}
	fields := []struct {
		flag     string
		value    string
		manifest *int
		set      func(string) error
	}{
		{"columns", g.columns, columns, s.SetColumns},
		{"rows", g.rows, rows, s.SetRows},
		{"width", g.width, width, s.SetWidth},
	}
	for _, f := range fields {
		switch {
		case cmd.Flags().Changed(f.flag):
			if err := f.set(f.value); err != nil {
				return err
			}
		case f.manifest != nil:
			if err := f.set(strconv.Itoa(*f.manifest)); err != nil {
				return err
			}
		}
	}
	return nil
}

// styleFlags configure the Builder.
type styleFlags struct {
	transparency string
	fuzz         float64
	quality      int
	fill         string
}

func addStyleFlags(cmd *cobra.Command, s *styleFlags) {
	cmd.Flags().StringVar(&s.transparency, "transparency", "", "Background detection: border, dominant, kmeans or none (default: border)")
	cmd.Flags().Float64Var(&s.fuzz, "fuzz", 0, "Lab distance within which colours match the background")
	cmd.Flags().IntVar(&s.quality, "quality", 0, "JPEG quality 1-100 (default: 90)")
	cmd.Flags().StringVar(&s.fill, "fill", "", "Colour of empty cells as #rrggbb or #rrggbbaa (default: transparent)")
}

// options merges cfg, m and the flags given on the command line, in that
// order of increasing precedence.
func (s *styleFlags) options(cmd *cobra.Command, cfg *config.Config, m *config.Manifest) ([]contactsheet.Option, error) {
	method, fuzz, quality, fill := cfg.Transparency, cfg.Fuzz, cfg.Quality, cfg.Fill
	if m != nil {
		if m.Transparency != "" {
			method = m.Transparency
		}
		if m.Fuzz != nil {
			fuzz = *m.Fuzz
		}
		if m.Quality != nil {
			quality = *m.Quality
		}
		if m.Fill != "" {
			fill = m.Fill
		}
	}
	flags := cmd.Flags()
	if flags.Changed("transparency") {
		method = s.transparency
	}
	if flags.Changed("fuzz") {
		fuzz = s.fuzz
	}
	if flags.Changed("quality") {
		quality = s.quality
	}
	if flags.Changed("fill") {
		fill = s.fill
	}

	bm, err := contactsheet.ParseBackgroundMethod(method)
	if err != nil {
		return nil, err
	}
	c, err := config.ParseColor(fill)
	if err != nil {
		return nil, err
	}
	return []contactsheet.Option{
		contactsheet.WithLogger(slog.Default()),
		contactsheet.WithBackgroundMethod(bm),
		contactsheet.WithTransparencyFuzz(fuzz),
		contactsheet.WithJPEGQuality(quality),
		contactsheet.WithFill(c),
	}, nil
}

// imagePaths expands glob patterns and keeps the files with an allowed
// extension. Manifest images come before the arguments.
func imagePaths(args []string, m *config.Manifest) []string {
	var candidates []string
	if m != nil {
		candidates = append(candidates, m.Images...)
	}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			candidates = append(candidates, arg)
			continue
		}
		candidates = append(candidates, matches...)
	}

	paths := contactsheet.FilterPaths(candidates)
	if skipped := len(candidates) - len(paths); skipped > 0 {
		slog.Warn("Skipping files without an image extension", "skipped", skipped, "allowed", contactsheet.FilterPattern())
	}
	return paths
}
