// Package colors maps sample groups to plot colors.
package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

// RGBA is a color with each channel in [0, 1].
type RGBA [4]float64

// FromColor converts any color.Color (non-premultiplied) to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{float64(n.R) / 255, float64(n.G) / 255, float64(n.B) / 255, float64(n.A) / 255}
}

// Color converts back to a color.Color for plotting.
func (c RGBA) Color() color.Color {
	ch := func(v float64) uint8 { return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255)) }
	return color.NRGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

// ToColors converts a list for the plotting package.
func ToColors(cs []RGBA) []color.Color {
	out := make([]color.Color, len(cs))
	for i, c := range cs {
		out[i] = c.Color()
	}
	return out
}

// Assign returns one color per distinct value of groupColumn, in first-seen order.
//
// A colormap holding a comma is an explicit list of color names or hex codes, used as
// given; a length that differs from the group count is only a warning. Any other
// colormap names a palette from which one color per group is taken. invert reverses
// the final list.
func Assign(sampleInfo *table.Table, groupColumn, colormap string, invert bool, log logrus.FieldLogger) ([]RGBA, error) {
	groups, err := sampleInfo.Column(groupColumn)
	if err != nil {
		return nil, apperrors.Validation("sample info table: %v", err)
	}
	n := len(common.Unique(groups))

	var out []RGBA
	if strings.Contains(colormap, ",") {
		for _, name := range strings.Split(colormap, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			c, err := Parse(name)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		if len(out) != n && log != nil {
			log.Warnf("%d colors given for %d groups in column %q", len(out), n, groupColumn)
		}
	} else {
		if out, err = FromPalette(strings.TrimSpace(colormap), n); err != nil {
			return nil, err
		}
	}

	if invert {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// Parse reads an SVG color name (red, steelblue, ...) or a #rgb, #rrggbb or #rrggbbaa code.
func Parse(name string) (RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if c, ok := colornames.Map[s]; ok {
		return FromColor(c), nil
	}
	if !strings.HasPrefix(s, "#") {
		return RGBA{}, apperrors.Validation("unknown color %q", name)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return RGBA{}, apperrors.Validation("bad hex color %q", name)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, apperrors.Validation("bad hex color %q", name)
	}
	return FromColor(color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}), nil
}

// FromPalette takes n consecutive colors from a named palette: any ColorBrewer name
// (Set1, Dark2, PuBu, ...), moreland, rainbow or heat. A ColorBrewer palette with fewer
// than n colors repeats.
func FromPalette(name string, n int) ([]RGBA, error) {
	if n <= 0 {
		return nil, nil
	}

	var colors []color.Color
	switch strings.ToLower(name) {
	case "moreland":
		colors = moreland.SmoothBlueRed().Palette(max(n, 2)).Colors()
	case "rainbow":
		colors = palette.Rainbow(max(n, 2), palette.Red, palette.Magenta, 1, 1, 1).Colors()
	case "heat":
		colors = palette.Heat(max(n, 2), 1).Colors()
	default:
		p, err := brewerPalette(name, n)
		if err != nil {
			return nil, err
		}
		colors = p.Colors()
	}

	out := make([]RGBA, n)
	for i := range out {
		out[i] = FromColor(colors[i%len(colors)])
	}
	return out, nil
}

// brewerPalette returns the palette with n colors, or the largest one the scheme has.
func brewerPalette(name string, n int) (palette.Palette, error) {
	_, div := brewer.DivergingPalettes[name]
	_, qual := brewer.QualitativePalettes[name]
	_, seq := brewer.SequentialPalettes[name]
	if !div && !qual && !seq {
		return nil, apperrors.Validation("unknown colormap %q", name)
	}
	for k := max(n, 3); k >= 3; k-- {
		if p, err := brewer.GetPalette(brewer.TypeAny, name, k); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("colormap %q has no usable size", name)
}
