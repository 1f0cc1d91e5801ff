package colors

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

func groups(t *testing.T, values ...string) *table.Table {
	t.Helper()
	index := make([]string, len(values))
	cells := make([][]string, len(values))
	for i, v := range values {
		index[i] = "S" + string(rune('1'+i))
		cells[i] = []string{v}
	}
	tb, err := table.NewTable(index, []string{"group"}, cells)
	require.NoError(t, err)
	return tb
}

func TestAssignExplicitNames(t *testing.T) {
	info := groups(t, "normal", "normal", "cancer")

	out, err := Assign(info, "group", "red,green", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []RGBA{{1, 0, 0, 1}, {0, 0.5019607843137255, 0, 1}}, out)

	inverted, err := Assign(info, "group", "red,green", true, nil)
	require.NoError(t, err)
	assert.Equal(t, []RGBA{{0, 0.5019607843137255, 0, 1}, {1, 0, 0, 1}}, inverted)
}

func TestAssignCountMismatchWarns(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	out, err := Assign(groups(t, "a", "b", "c"), "group", "red, #00f", false, log)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, RGBA{0, 0, 1, 1}, out[1])
	assert.Contains(t, buf.String(), "2 colors given for 3 groups")
}

func TestAssignPalette(t *testing.T) {
	out, err := Assign(groups(t, "a", "b", "a"), "group", "Set1", false, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, FromColor(color.RGBA{0xe4, 0x1a, 0x1c, 0xff}), out[0])
	assert.Equal(t, FromColor(color.RGBA{0x37, 0x7e, 0xb8, 0xff}), out[1])
}

func TestAssignUnknownInputs(t *testing.T) {
	_, err := Assign(groups(t, "a"), "group", "NoSuchMap", false, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = Assign(groups(t, "a"), "group", "red,notacolor", false, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = Assign(groups(t, "a"), "batch", "Set1", false, nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestParseHex(t *testing.T) {
	c, err := Parse("#FF000080")
	require.NoError(t, err)
	assert.Equal(t, RGBA{1, 0, 0, float64(0x80) / 255}, c)

	c, err = Parse("#0f0")
	require.NoError(t, err)
	assert.Equal(t, RGBA{0, 1, 0, 1}, c)

	_, err = Parse("#12345")
	assert.Error(t, err)
}

func TestFromPaletteSizes(t *testing.T) {
	for _, name := range []string{"Set1", "PuBu", "moreland", "rainbow", "heat"} {
		for _, n := range []int{1, 2, 5, 15} {
			out, err := FromPalette(name, n)
			require.NoError(t, err, name)
			assert.Len(t, out, n, name)
		}
	}
	// Set1 has 9 colors, the tenth group reuses the first
	out, err := FromPalette("Set1", 10)
	require.NoError(t, err)
	assert.Equal(t, out[0], out[9])
}

func TestColorRoundTrip(t *testing.T) {
	c := RGBA{0, 0.5019607843137255, 0, 1}
	assert.Equal(t, color.NRGBA{G: 128, A: 255}, c.Color())
	assert.Equal(t, c, FromColor(c.Color()))
	assert.Len(t, ToColors([]RGBA{c, c}), 2)
}
