package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
)

const labelCols = 18

// barLayout places n horizontal bars in r, with a label gutter on the left.
// It returns the bar area and the height of one bar row.
func barLayout(r rect, n int) (area rect, row float64) {
	gutter := labelCols*charW + 8
	area = rect{x: r.x + gutter, y: r.y, w: max(r.w-gutter-8, 0), h: r.h}
	if n == 0 {
		return area, 0
	}
	return area, float64(area.h) / float64(n)
}

// drawStackedBars draws one horizontal stacked bar per sample. grow in
// [0, 1] animates the bars in from the left.
func drawStackedBars(screen *ebiten.Image, r rect, s dashboard.Series, colorOf func(i int, label string) color.Color, grow float64) {
	if s.Empty() {
		ebitenutil.DebugPrintAt(screen, "No data available for this level.", r.x+8, r.y+8)
		return
	}
	legendH := lineH + 6
	chart := rect{x: r.x, y: r.y, w: r.w, h: r.h - legendH}
	area, row := barLayout(chart, len(s.Labels))

	scale := 1.0
	for i := range s.Labels {
		scale = max(scale, s.Total(i))
	}
	for i, label := range s.Labels {
		y := float64(area.y) + float64(i)*row + row*0.15
		h := row * 0.7
		ebitenutil.DebugPrintAt(screen, fit(label, labelCols), r.x, int(y+h/2)-lineH/2)
		x := float64(area.x)
		for di, d := range s.Datasets {
			w := d.Values[i] / scale * float64(area.w) * grow
			drawBar(screen, x, y, w, h, colorOf(di, d.Label))
			x += w
		}
	}
	vector.StrokeLine(screen, float32(area.x), float32(area.y), float32(area.x), float32(area.y+area.h), 1, panelBorder, false)

	x := r.x
	ly := r.y + r.h - lineH
	for di, d := range s.Datasets {
		label := fit(d.Label, 16)
		if x+(len(label)+3)*charW > r.x+r.w {
			break
		}
		vector.DrawFilledRect(screen, float32(x), float32(ly+4), 10, 10, colorOf(di, d.Label), false)
		ebitenutil.DebugPrintAt(screen, label, x+14, ly)
		x += (len(label)+4)*charW + 10
	}
}

// drawGroupedBars draws one vertical bar per series for every label,
// each series normalised to its own maximum so metrics of different scale
// share an axis.
func drawGroupedBars(screen *ebiten.Image, r rect, labels []string, series []dashboard.MetricSeries, grow float64) {
	if len(labels) == 0 || len(series) == 0 {
		ebitenutil.DebugPrintAt(screen, "No alpha diversity data.", r.x+8, r.y+8)
		return
	}
	chartH := r.h - 2*lineH - 8
	group := float64(r.w) / float64(len(labels))
	barW := group * 0.8 / float64(len(series))

	for si, ms := range series {
		peak := 0.0
		for _, v := range ms.Values {
			peak = max(peak, v)
		}
		if peak == 0 {
			continue
		}
		clr := dashboard.MetricColors[ms.Key]
		for li, v := range ms.Values {
			h := v / peak * float64(chartH) * grow
			x := float64(r.x) + float64(li)*group + group*0.1 + float64(si)*barW
			drawBar(screen, x, float64(r.y+chartH)-h, barW-2, h, clr)
		}
	}
	for li, label := range labels {
		x := r.x + int(float64(li)*group) + 4
		ebitenutil.DebugPrintAt(screen, fit(label, int(group)/charW-1), x, r.y+chartH+4)
	}

	x := r.x
	for _, ms := range series {
		vector.DrawFilledRect(screen, float32(x), float32(r.y+r.h-lineH+4), 10, 10, dashboard.MetricColors[ms.Key], false)
		ebitenutil.DebugPrintAt(screen, ms.Label, x+14, r.y+r.h-lineH)
		x += (len(ms.Label)+4)*charW + 10
	}
}

// drawBetaBars draws similarity and distance side by side for each pair.
func drawBetaBars(screen *ebiten.Image, r rect, rows []dashboard.BetaRow, grow float64) {
	if len(rows) == 0 {
		ebitenutil.DebugPrintAt(screen, "No beta diversity data.", r.x+8, r.y+8)
		return
	}
	area, row := barLayout(rect{x: r.x, y: r.y, w: r.w, h: r.h - lineH - 6}, len(rows))
	for i, b := range rows {
		y := float64(area.y) + float64(i)*row + row*0.1
		h := row * 0.38
		ebitenutil.DebugPrintAt(screen, fit(b.Pair, labelCols), r.x, int(y+h)-lineH/2)
		drawBar(screen, float64(area.x), y, b.Similarity*float64(area.w)*grow, h, dashboard.Purple)
		drawBar(screen, float64(area.x), y+h+2, b.Distance*float64(area.w)*grow, h, dashboard.Cyan)
	}
	ly := r.y + r.h - lineH
	vector.DrawFilledRect(screen, float32(r.x), float32(ly+4), 10, 10, dashboard.Purple, false)
	ebitenutil.DebugPrintAt(screen, "Jaccard Similarity", r.x+14, ly)
	vector.DrawFilledRect(screen, float32(r.x+150), float32(ly+4), 10, 10, dashboard.Cyan, false)
	ebitenutil.DebugPrintAt(screen, "Jaccard Distance", r.x+164, ly)
}

// growIn eases a chart in over the first 1.5 seconds after entering a view.
func growIn(since float64) float64 {
	const d = 1.5
	if since >= d {
		return 1
	}
	if since <= 0 {
		return 0
	}
	p := since / d
	// easeInOutQuart
	if p < 0.5 {
		return 8 * p * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q*q/2
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
