package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

type homeView struct {
	version int
	summary dashboard.Summary
	kingdom dashboard.Series
	since   float64
}

func (v *homeView) enter(g *Game) {
	v.since = g.t
	v.version = -1
}

func (v *homeView) leave() {}

func (v *homeView) update(g *Game) error {
	if v.version != g.version && g.analysis != nil {
		v.summary = dashboard.Overview(g.analysis)
		v.kingdom = dashboard.LevelSeries(g.analysis, fixture.LevelKingdom)
		v.version = g.version
	}
	return nil
}

func (v *homeView) draw(screen *ebiten.Image, g *Game) {
	if v.version < 0 {
		return
	}
	c := g.content()
	s := v.summary
	tiles := []struct {
		label, value string
		accent       color.NRGBA
	}{
		{"Samples Processed", fmt.Sprint(s.Samples), dashboard.Cyan},
		{"Total Sequences", fmt.Sprint(s.TotalSequences), dashboard.Green},
		{"Predictions", fmt.Sprint(s.Predictions), dashboard.Purple},
		{"Novel Candidates", fmt.Sprint(s.NovelCandidates), dashboard.Red},
		{"Shannon (mean +/- sd)", fmt.Sprintf("%.2f +/- %.2f", s.ShannonMean, s.ShannonStdDev), dashboard.Amber},
		{"Dominant Kingdom", s.DominantKingdom, dashboard.Cyan},
	}
	area := rect{x: c.x + 24, y: c.y + 24, w: c.w - 48, h: c.h - 48}
	rects := cardRects(area, len(tiles), 180, 72, 6)
	for i, r := range rects {
		t := tiles[i]
		drawPanel(screen, r, panelFill, t.accent)
		ebitenutil.DebugPrintAt(screen, fit(t.label, r.w/charW-2), r.x+10, r.y+10)
		ebitenutil.DebugPrintAt(screen, fit(t.value, r.w/charW-2), r.x+10, r.y+38)
	}

	if len(rects) == 0 {
		return
	}
	last := rects[len(rects)-1]
	chartTop := last.y + last.h + gap + 12
	chart := rect{x: area.x, y: chartTop, w: area.w, h: min(area.y+area.h-chartTop, 60*len(v.kingdom.Labels)+40)}
	if chart.h < 80 {
		return
	}
	drawPanel(screen, chart, panelFill, panelBorder)
	ebitenutil.DebugPrintAt(screen, "Kingdom composition", chart.x+10, chart.y+8)
	inner := rect{x: chart.x + 10, y: chart.y + 30, w: chart.w - 20, h: chart.h - 40}
	drawStackedBars(screen, inner, v.kingdom, func(_ int, label string) color.Color {
		return dashboard.KingdomColors[label]
	}, growIn(g.t-v.since))

	if s.ID != "" {
		info := "Analysis " + s.ID
		if d := g.analysis.Overview.AnalysisDate; d != "" {
			info += "  |  " + d
		}
		if p := g.analysis.Overview.PipelineVersion; p != "" {
			info += "  |  " + p
		}
		ebitenutil.DebugPrintAt(screen, info, area.x, min(chart.y+chart.h+8, c.y+c.h-lineH))
	}
}
