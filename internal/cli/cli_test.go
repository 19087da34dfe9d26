package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/contactsheet/internal/config"
)

func execute(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if in != nil {
		root.SetIn(in)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// swatches writes n solid w x w PNG files and returns their paths.
func swatches(t *testing.T, dir string, n, w int) []string {
	t.Helper()
	var paths []string
	for i := range n {
		img := image.NewNRGBA(image.Rect(0, 0, w, w))
		c := color.NRGBA{R: uint8(40 * i), G: 100, B: 200, A: 255}
		for y := range w {
			for x := range w {
				img.SetNRGBA(x, y, c)
			}
		}
		p := filepath.Join(dir, fmt.Sprintf("img%d.png", i))
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
		paths = append(paths, p)
	}
	return paths
}

func size(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestLayoutCmd(t *testing.T) {
	dir := t.TempDir()
	files := swatches(t, dir, 5, 30)

	test := []struct {
		name string
		args []string
		exp  []string
	}{
		{"derived", files,
			[]string{"images:  5", "columns: 2", "rows:    3", "tile:    30", "size:    60 x 40 (0% compression)"}},
		{"explicit columns and width", append([]string{"--columns", "5", "--width", "75"}, files...),
			[]string{"columns: 5", "rows:    1", "tile:    15", "size:    75 x 375 (50% compression)"}},
		{"non image files skipped", append([]string{filepath.Join(dir, "notes.txt")}, files[:1]...),
			[]string{"images:  1", "columns: 1", "size:    30 x 30 (0% compression)"}},
		{"glob", []string{filepath.Join(dir, "*.png")},
			[]string{"images:  5"}},
		{"empty", nil,
			[]string{"images:  0", "size:    1024 x 1024 (0% compression)"}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, nil, append([]string{"layout"}, tt.args...)...)
			require.NoError(t, err)
			for _, line := range tt.exp {
				assert.Contains(t, out, line)
			}
		})
	}

	t.Run("non-digit width", func(t *testing.T) {
		_, err := execute(t, nil, append([]string{"layout", "--width", "1e3"}, files...)...)
		assert.Error(t, err)
	})
}

func TestBuildCmd(t *testing.T) {
	dir := t.TempDir()
	files := swatches(t, dir, 4, 20)

	t.Run("native size", func(t *testing.T) {
		out := filepath.Join(dir, "sheet.png")
		stdout, err := execute(t, nil, append([]string{"build", "-o", out}, files...)...)
		require.NoError(t, err)
		assert.Contains(t, stdout, "4 images")
		w, h := size(t, out)
		assert.Equal(t, 40, w)
		assert.Equal(t, 40, h)
	})

	t.Run("scaled jpeg", func(t *testing.T) {
		out := filepath.Join(dir, "sheet.jpg")
		_, err := execute(t, nil, append([]string{"build", "-o", out, "--columns", "4", "--width", "40",
			"--transparency", "none", "--fill", "#ffffff", "--quality", "80"}, files...)...)
		require.NoError(t, err)
		w, h := size(t, out)
		assert.Equal(t, 40, w)
		assert.Equal(t, 10, h)
	})

	t.Run("manifest", func(t *testing.T) {
		columns, width := 1, 10
		m := &config.Manifest{
			Output:       "from-manifest.gif",
			Columns:      &columns,
			Width:        &width,
			Transparency: "kmeans",
			Images:       []string{filepath.Base(files[0]), filepath.Base(files[1])},
		}
		path := filepath.Join(dir, "sheet.yaml")
		require.NoError(t, m.Save(path))

		_, err := execute(t, nil, "build", "--manifest", path)
		require.NoError(t, err)
		w, h := size(t, filepath.Join(dir, "from-manifest.gif"))
		assert.Equal(t, 10, w)
		assert.Equal(t, 20, h)

		// flags win over the manifest
		_, err = execute(t, nil, "build", "--manifest", path, "--columns", "2", "--width", "40", "-o", filepath.Join(dir, "override.png"))
		require.NoError(t, err)
		w, h = size(t, filepath.Join(dir, "override.png"))
		assert.Equal(t, 40, w)
		assert.Equal(t, 20, h)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := execute(t, nil, "build", "-o", filepath.Join(dir, "none.png"))
		assert.Error(t, err, "no images")

		_, err = execute(t, nil, append([]string{"build", "-o", filepath.Join(dir, "x.tiff")}, files...)...)
		assert.Error(t, err, "unsupported output")

		_, err = execute(t, nil, append([]string{"build", "--transparency", "magic", "-o", filepath.Join(dir, "x.png")}, files...)...)
		assert.Error(t, err, "unknown method")

		_, err = execute(t, nil, append([]string{"build", "--fill", "red", "-o", filepath.Join(dir, "x.png")}, files...)...)
		assert.Error(t, err, "bad fill")

		_, err = execute(t, nil, append([]string{"build", "--log-level", "loud"}, files...)...)
		assert.Error(t, err, "bad log level")
	})
}

func TestSessionCmd(t *testing.T) {
	dir := t.TempDir()
	files := swatches(t, dir, 3, 10)
	out := filepath.Join(dir, "session.png")

	script := strings.Join([]string{
		"# reorder and build",
		"select 3",
		"up",
		"up",
		"list",
		"clear",
		"columns 3",
		"layout",
		"save " + out,
		"bogus",
		"select 9",
		"quit",
		"list",
	}, "\n")

	stdout, err := execute(t, strings.NewReader(script), append([]string{"session"}, files...)...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "added 3")
	assert.Contains(t, stdout, fmt.Sprintf("  1 * %s\n  2   %s\n  3   %s\n", files[2], files[0], files[1]))
	assert.Contains(t, stdout, "size:    30 x 90 (0% compression)")
	assert.Contains(t, stdout, "saved "+out)
	assert.Contains(t, stdout, `error: unknown command "bogus"`)
	assert.Contains(t, stdout, "error: \"9\" is not a list number between 1 and 3")
	assert.Equal(t, 1, strings.Count(stdout, "  1 "), "nothing runs after quit")

	w, h := size(t, out)
	assert.Equal(t, 30, w)
	assert.Equal(t, 10, h)
}

func TestSessionScript(t *testing.T) {
	dir := t.TempDir()
	files := swatches(t, dir, 4, 10)

	t.Run("remove and manifest", func(t *testing.T) {
		manifest := filepath.Join(dir, "out.yaml")
		script := filepath.Join(dir, "ok.txt")
		require.NoError(t, os.WriteFile(script, []byte(strings.Join([]string{
			"add " + filepath.Join(dir, "*.png"),
			"select 1 2",
			"deselect 2",
			"remove",
			"width 15",
			"manifest " + manifest,
		}, "\n")), 0o644))

		stdout, err := execute(t, nil, "session", "--script", script)
		require.NoError(t, err)
		assert.Contains(t, stdout, "added 4")
		assert.Contains(t, stdout, "removed 1")

		m, err := config.LoadManifest(manifest)
		require.NoError(t, err)
		assert.Equal(t, files[1:], m.Images)
		require.NotNil(t, m.Width)
		assert.Equal(t, 15, *m.Width)
		require.NotNil(t, m.Columns)
		assert.Equal(t, 2, *m.Columns)
	})

	t.Run("first error stops the script", func(t *testing.T) {
		script := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(script, []byte("add "+files[0]+"\nrows x\nsave "+filepath.Join(dir, "never.png")+"\n"), 0o644))

		_, err := execute(t, nil, "session", "--script", script)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2: rows")
		assert.NoFileExists(t, filepath.Join(dir, "never.png"))
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := execute(t, nil, "session", "--script", filepath.Join(dir, "missing.txt"))
		assert.Error(t, err)
	})
}
