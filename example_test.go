package contactsheet_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/yyyoichi/contactsheet"
)

func Example_contactSheet() {
	dir, err := os.MkdirTemp("", "contactsheet-example")
	if err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	// Write four 100x100 swatches to disk
	var files []string
	for i := range 4 {
		img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
		c := color.NRGBA{R: uint8(60 * i), G: 128, B: 200, A: 255}
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
		path := filepath.Join(dir, fmt.Sprintf("swatch%d.png", i))
		f, err := os.Create(path)
		if err != nil {
			fmt.Printf("Error creating swatch: %v\n", err)
			return
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			fmt.Printf("Error encoding swatch: %v\n", err)
			return
		}
		f.Close()
		files = append(files, path)
	}

	sheet := contactsheet.NewSheet()
	sheet.Add(files...)
	l, err := sheet.Layout()
	if err != nil {
		fmt.Printf("Error resolving layout: %v\n", err)
		return
	}
	fmt.Printf("%d columns, %d rows, %s\n", l.Columns, l.Rows, l)

	// Halve the output width
	if err := sheet.SetWidth("100"); err != nil {
		fmt.Printf("Error setting width: %v\n", err)
		return
	}
	l, _ = sheet.Layout()
	fmt.Println(l.Label())

	b, err := contactsheet.New(contactsheet.WithBackgroundMethod(contactsheet.BackgroundNone))
	if err != nil {
		fmt.Printf("Error creating builder: %v\n", err)
		return
	}
	out := filepath.Join(dir, "sheet.png")
	if err := b.BuildSheet(context.Background(), sheet, out); err != nil {
		fmt.Printf("Error building sheet: %v\n", err)
		return
	}

	f, err := os.Open(out)
	if err != nil {
		fmt.Printf("Error opening sheet: %v\n", err)
		return
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		fmt.Printf("Error reading sheet: %v\n", err)
		return
	}
	fmt.Printf("%dx%d\n", cfg.Width, cfg.Height)

	// Output:
	// 2 columns, 2 rows, 200 x 200 (0% compression)
	// x 100 (50% compression)
	// 100x100
}
