package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
)

type diversityView struct {
	version int
	labels  []string
	alpha   []dashboard.MetricSeries
	beta    []dashboard.BetaRow
	cards   []dashboard.Card
	since   float64
}

func (v *diversityView) enter(g *Game) {
	v.since = g.t
	v.version = -1
}

func (v *diversityView) leave() {}

func (v *diversityView) update(g *Game) error {
	if v.version != g.version && g.analysis != nil {
		v.labels, v.alpha = dashboard.AlphaSeries(g.analysis)
		v.beta = dashboard.BetaSeries(g.analysis)
		v.cards = dashboard.SampleCards(g.analysis)
		v.version = g.version
	}
	return nil
}

func (v *diversityView) draw(screen *ebiten.Image, g *Game) {
	if v.version < 0 {
		return
	}
	c := g.content()
	area := rect{x: c.x + 24, y: c.y + 24, w: c.w - 48, h: c.h - 48}
	grow := growIn(g.t - v.since)

	half := (area.w - gap) / 2
	chartH := min(max(area.h/2, 180), 320)
	alpha := rect{x: area.x, y: area.y, w: half, h: chartH}
	beta := rect{x: area.x + half + gap, y: area.y, w: half, h: chartH}

	drawPanel(screen, alpha, panelFill, panelBorder)
	ebitenutil.DebugPrintAt(screen, "Alpha Diversity", alpha.x+10, alpha.y+8)
	drawGroupedBars(screen, rect{x: alpha.x + 10, y: alpha.y + 30, w: alpha.w - 20, h: alpha.h - 40}, v.labels, v.alpha, grow)

	drawPanel(screen, beta, panelFill, panelBorder)
	ebitenutil.DebugPrintAt(screen, "Beta Diversity ("+countLabel(len(v.beta), "pair")+")", beta.x+10, beta.y+8)
	drawBetaBars(screen, rect{x: beta.x + 10, y: beta.y + 30, w: beta.w - 20, h: beta.h - 40}, v.beta, grow)

	top := alpha.y + alpha.h + 36
	grid := rect{x: area.x, y: top, w: area.w, h: area.y + area.h - top}
	rects := cardRects(grid, len(v.cards), 220, cardH, 4)
	if len(rects) > 0 {
		ebitenutil.DebugPrintAt(screen, "Sample summary", grid.x, grid.y-22)
	}
	for i, r := range rects {
		if r.y+r.h > area.y+area.h {
			break
		}
		drawSampleCard(screen, r, v.cards[i], true)
	}
}
