// Package plots renders the pipeline figures (heatmaps, PCA scatter, volcano) with gonum/plot.
package plots

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// MaxPixels is the largest image side the raster encoders accept.
const MaxPixels = 1 << 16

// Figure is a plot together with its physical size and raster resolution.
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
	DPI    int
}

// Save writes the figure once per path. The format follows the extension.
// Raster formats honour DPI; vector formats ignore it.
func (f Figure) Save(paths ...string) error {
	for _, path := range paths {
		if err := f.save(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

func (f Figure) save(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".png") || f.DPI <= 0 {
		return f.Plot.Save(f.Width, f.Height, path)
	}

	c := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(f.DPI))
	f.Plot.Draw(draw.New(c))

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DownsizeDPI halves dpi until the longer side (in inches) stays below MaxPixels.
func DownsizeDPI(longerSide float64, dpi int) int {
	for dpi > 1 && longerSide*float64(dpi) >= MaxPixels {
		dpi /= 2
	}
	return dpi
}

func maxLen(labels []string) int {
	n := 0
	for _, l := range labels {
		if len(l) > n {
			n = len(l)
		}
	}
	return n
}
