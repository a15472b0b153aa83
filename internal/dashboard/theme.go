package dashboard

import (
	"image/color"
	"math/rand"
)

func hex(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

var (
	Cyan   = hex(0x22d3ee)
	Green  = hex(0x4ade80)
	Purple = hex(0xc084fc)
	Red    = hex(0xf87171)
	Amber  = hex(0xfbbf24)

	// Palette is the accent set used for titles and crystals.
	Palette = []color.NRGBA{Cyan, Green, Purple, Red, Amber}

	// ChartPalette colours stacked datasets by index.
	ChartPalette = []color.NRGBA{Red, Amber, hex(0xa855f7), hex(0x60a5fa), hex(0x34d399)}

	// KingdomColors colours the kingdom chart.
	KingdomColors = map[string]color.NRGBA{
		"Eukaryota": Cyan,
		"Archaea":   Amber,
		"Bacteria":  Purple,
	}

	// MetricColors colours the alpha diversity chart.
	MetricColors = map[string]color.NRGBA{
		"species_richness":  Green,
		"shannon_diversity": Cyan,
		"simpson_diversity": Purple,
		"evenness":          Red,
	}
)

// CardTheme is the fill and accent of a sample card.
type CardTheme struct {
	Name   string
	Fill   color.NRGBA
	Accent color.NRGBA
}

var CardThemes = []CardTheme{
	{"indigo", color.NRGBA{R: 0x31, G: 0x2e, B: 0x81, A: 0x66}, hex(0x818cf8)},
	{"teal", color.NRGBA{R: 0x13, G: 0x4e, B: 0x4a, A: 0x66}, hex(0x2dd4bf)},
	{"purple", color.NRGBA{R: 0x58, G: 0x1c, B: 0x87, A: 0x66}, hex(0xc084fc)},
	{"blue", color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0x66}, hex(0x60a5fa)},
}

// ChartColor returns the dataset colour for index i.
func ChartColor(i int) color.NRGBA {
	return ChartPalette[i%len(ChartPalette)]
}

// PickColor draws an accent colour from Palette.
func PickColor(rng *rand.Rand) color.NRGBA {
	return Palette[rng.Intn(len(Palette))]
}
