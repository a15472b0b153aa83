package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

// listView is a paged grid of cards built from the current analysis.
type listView[T any] struct {
	title   string
	empty   string
	build   func(a *fixture.Analysis) []T
	card    func(screen *ebiten.Image, r rect, item T)
	cardH   int
	version int
	items   []T
	pager   *pager
	grid    rect
	page    dashboard.PageOf[T]
}

func (v *listView[T]) enter(g *Game) {
	v.version = -1
}

func (v *listView[T]) leave() {}

func (v *listView[T]) update(g *Game) error {
	if g.analysis == nil {
		return nil
	}
	if v.version != g.version {
		v.items = v.build(g.analysis)
		v.pager.page = 1
		v.version = g.version
	}
	c := g.content()
	v.grid = rect{x: c.x + 24, y: c.y + 48, w: c.w - 48, h: c.h - 48 - 56}
	v.pager.place(rect{x: c.x, y: c.y, w: c.w, h: c.h - 8})

	v.page = dashboard.Page(v.items, v.pager.page, g.cfg.Pages.PerPage)
	v.pager.update(g.mouseX, g.mouseY, v.page.TotalPages)
	if v.pager.page != v.page.Page {
		v.page = dashboard.Page(v.items, v.pager.page, g.cfg.Pages.PerPage)
	}
	return nil
}

func (v *listView[T]) draw(screen *ebiten.Image, g *Game) {
	if v.version < 0 {
		return
	}
	c := g.content()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%d)", v.title, v.page.Total), c.x+24, c.y+18)
	if v.page.Total == 0 {
		ebitenutil.DebugPrintAt(screen, v.empty, v.grid.x, v.grid.y)
		return
	}
	rects := cardRects(v.grid, len(v.page.Items), 260, v.cardH, 4)
	for i, r := range rects {
		if r.y+r.h > v.grid.y+v.grid.h {
			break
		}
		v.card(screen, r, v.page.Items[i])
	}
	v.pager.draw(screen, v.page.Page, v.page.TotalPages)
}

func newNovelView() *listView[dashboard.Candidate] {
	return &listView[dashboard.Candidate]{
		title: "Novel Taxa Candidates",
		empty: "No novel candidates in this analysis.",
		build: dashboard.NovelCandidates,
		card:  drawCandidate,
		cardH: 132,
		pager: newPager(),
	}
}

func newTaxaView() *listView[dashboard.PredictionRow] {
	return &listView[dashboard.PredictionRow]{
		title: "Taxa Explorer",
		empty: "No taxonomic predictions in this analysis.",
		build: dashboard.Predictions,
		card:  drawPrediction,
		cardH: 150,
		pager: newPager(),
	}
}

func drawCandidate(screen *ebiten.Image, r rect, c dashboard.Candidate) {
	drawPanel(screen, r, panelFill, dashboard.Red)
	width := r.w/charW - 4
	ebitenutil.DebugPrintAt(screen, fit(c.ClusterID, width-12), r.x+10, r.y+10)
	drawConfidence(screen, r, c.OverallConfidence)
	lines := []string{
		"Sample: " + c.SampleID,
		"Kingdom: " + c.PredictedKingdom,
		"Phylum: " + c.PredictedPhylum,
		"Closest: " + c.ClosestKnownTaxa,
		fmt.Sprintf("Genetic distance: %.3f", c.GeneticDistance),
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, fit(l, width), r.x+10, r.y+34+i*lineH)
	}
}

func drawPrediction(screen *ebiten.Image, r rect, p dashboard.PredictionRow) {
	border := color.Color(panelBorder)
	if p.NovelCandidate {
		border = dashboard.Amber
	}
	drawPanel(screen, r, panelFill, border)
	width := r.w/charW - 4
	ebitenutil.DebugPrintAt(screen, fit(p.SequenceID, width-12), r.x+10, r.y+10)
	drawConfidence(screen, r, p.OverallConfidence)
	lines := []string{
		"Sample: " + p.SampleID,
		"Kingdom: " + p.Kingdom,
		"Phylum: " + p.Phylum,
		"Genus: " + p.Genus,
		"Species: " + p.Species,
		fmt.Sprintf("Sequences: %d", p.SequenceCount),
	}
	if p.NovelCandidate {
		lines = append(lines, "Novel candidate")
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, fit(l, width), r.x+10, r.y+34+i*lineH)
	}
}

// drawConfidence puts the confidence score and its icon in the top right of r.
// High confidence is a green disc, low an amber ring.
func drawConfidence(screen *ebiten.Image, r rect, conf float64) {
	label := percent(conf)
	x := r.x + r.w - 10 - len(label)*charW
	ebitenutil.DebugPrintAt(screen, label, x, r.y+10)
	cx, cy := float32(x-12), float32(r.y+18)
	if dashboard.ConfidenceClass(conf) == "high" {
		vector.DrawFilledCircle(screen, cx, cy, 6, dashboard.Green, true)
		return
	}
	vector.StrokeCircle(screen, cx, cy, 6, 2, dashboard.Amber, true)
}
