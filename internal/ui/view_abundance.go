package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

type abundanceView struct {
	version int
	level   int
	tabs    []*button
	accents []color.NRGBA
	series  dashboard.Series
	cards   []dashboard.Card
	since   float64
	crystal *fieldLayer
	chart   rect
	grid    []rect

	modal *sampleModal
}

// sampleModal is the per-sample breakdown with its own particle field.
type sampleModal struct {
	sample  string
	details []dashboard.LevelDetail
	field   *fieldLayer
	box     rect
	close   *button
}

func newAbundanceView() *abundanceView {
	v := &abundanceView{version: -1}
	for _, level := range fixture.Levels {
		v.tabs = append(v.tabs, newButton(dashboard.LevelTitle(level), 0, 0, 130, 30))
	}
	return v
}

func (v *abundanceView) enter(g *Game) {
	v.since = g.t
	if v.crystal == nil {
		v.crystal = newFieldLayer("crystal", g.cfg.MustField("crystal"), g.rng)
	}
	v.crystal.alpha = 0.6
	if v.accents == nil {
		for range v.tabs {
			v.accents = append(v.accents, dashboard.PickColor(g.rng))
		}
	}
}

func (v *abundanceView) leave() {
	v.closeModal()
	if v.crystal != nil {
		v.crystal.teardown()
	}
}

func (v *abundanceView) setLevel(i int, g *Game) {
	v.level = i
	v.series = dashboard.LevelSeries(g.analysis, fixture.Levels[i])
	v.since = g.t
}

func (v *abundanceView) openModal(g *Game, sample string) {
	details, ok := dashboard.SampleDetail(g.analysis, sample)
	if !ok {
		return
	}
	v.modal = &sampleModal{
		sample:  sample,
		details: details,
		field:   newFieldLayer("modal", g.cfg.MustField("modal"), g.rng),
		close:   newButton("Close", 0, 0, 80, 28),
	}
	g.log.Debug("sample detail opened")
}

func (v *abundanceView) closeModal() {
	if v.modal != nil {
		v.modal.field.teardown()
		v.modal = nil
	}
}

func (v *abundanceView) update(g *Game) error {
	if g.analysis == nil {
		return nil
	}
	if v.version != g.version {
		v.closeModal()
		v.cards = dashboard.SampleCards(g.analysis)
		v.setLevel(v.level, g)
		v.version = g.version
	}

	c := g.content()
	v.crystal.place(c.x, c.y, c.w, c.h)
	v.crystal.step(g.t)

	if v.modal != nil {
		return v.updateModal(g, c)
	}

	for i, b := range v.tabs {
		b.x, b.y = c.x+24+i*(b.w+8), c.y+16
		if b.update(g.mouseX, g.mouseY) {
			v.setLevel(i, g)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.setLevel((v.level+1)%len(fixture.Levels), g)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.setLevel((v.level+len(fixture.Levels)-1)%len(fixture.Levels), g)
	}

	chartH := min(max(c.h/2-40, 120), 60*len(v.series.Labels)+40)
	v.chart = rect{x: c.x + 24, y: c.y + 60, w: c.w - 48, h: chartH}
	gridArea := rect{x: c.x + 24, y: v.chart.y + v.chart.h + 36, w: c.w - 48, h: c.y + c.h - (v.chart.y + v.chart.h + 36)}
	v.grid = cardRects(gridArea, len(v.cards), 220, cardH, 4)

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		for i, r := range v.grid {
			if r.contains(g.mouseX, g.mouseY) {
				v.openModal(g, v.cards[i].SampleID)
				break
			}
		}
	}
	return nil
}

func (v *abundanceView) updateModal(g *Game, c rect) error {
	m := v.modal
	w, h := min(c.w-80, 720), min(c.h-60, 520)
	m.box = rect{x: c.x + (c.w-w)/2, y: c.y + (c.h-h)/2, w: w, h: h}
	m.close.x, m.close.y = m.box.x+m.box.w-96, m.box.y+12

	m.field.place(m.box.x, m.box.y, m.box.w, m.box.h)
	m.field.step(g.t)

	if m.close.update(g.mouseX, g.mouseY) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.closeModal()
		return nil
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && !m.box.contains(g.mouseX, g.mouseY) {
		v.closeModal()
	}
	return nil
}

func (v *abundanceView) draw(screen *ebiten.Image, g *Game) {
	if v.version < 0 || v.crystal == nil {
		return
	}
	v.crystal.draw(screen)

	for i, b := range v.tabs {
		if i == v.level {
			vector.StrokeRect(screen, float32(b.x-2), float32(b.y-2), float32(b.w+4), float32(b.h+4), 2, v.accents[i], false)
		}
		b.draw(screen)
	}

	drawPanel(screen, v.chart, panelFill, panelBorder)
	ebitenutil.DebugPrintAt(screen, dashboard.LevelTitle(fixture.Levels[v.level])+" abundance", v.chart.x+10, v.chart.y+8)
	inner := rect{x: v.chart.x + 10, y: v.chart.y + 30, w: v.chart.w - 20, h: v.chart.h - 40}
	colorOf := func(i int, label string) color.Color {
		if v.level == 0 {
			return dashboard.KingdomColors[label]
		}
		return dashboard.ChartColor(i)
	}
	drawStackedBars(screen, inner, v.series, colorOf, growIn(g.t-v.since))

	if len(v.grid) > 0 {
		ebitenutil.DebugPrintAt(screen, "Samples - click a card for details", v.grid[0].x, v.grid[0].y-22)
	}
	for i, r := range v.grid {
		drawSampleCard(screen, r, v.cards[i], v.modal == nil && r.contains(g.mouseX, g.mouseY))
	}

	if v.modal != nil {
		v.drawModal(screen, g)
	}
}

func (v *abundanceView) drawModal(screen *ebiten.Image, g *Game) {
	m := v.modal
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), float32(g.height), color.RGBA{A: 150}, false)
	drawPanel(screen, m.box, color.RGBA{R: 10, G: 14, B: 30, A: 245}, dashboard.Cyan)
	m.field.draw(screen)
	m.close.draw(screen)

	ebitenutil.DebugPrintAt(screen, "Sample "+m.sample, m.box.x+20, m.box.y+18)
	cols := modalColumns(m.box, len(m.details))
	for i, r := range cols {
		d := m.details[i]
		accent := dashboard.Palette[i%len(dashboard.Palette)]
		ebitenutil.DebugPrintAt(screen, dashboard.LevelTitle(d.Level), r.x, r.y)
		vector.StrokeLine(screen, float32(r.x), float32(r.y+lineH+2), float32(r.x+r.w), float32(r.y+lineH+2), 1, accent, false)
		maxRows := (r.h - lineH - 8) / (lineH + 6)
		for j, row := range d.Rows {
			if j >= maxRows {
				break
			}
			y := r.y + lineH + 8 + j*(lineH+6)
			drawBar(screen, float64(r.x), float64(y+lineH), row.Value*float64(r.w), 3, accent)
			val := percent(row.Value)
			ebitenutil.DebugPrintAt(screen, fit(row.Taxon, r.w/charW-len(val)-1), r.x, y)
			ebitenutil.DebugPrintAt(screen, val, r.x+r.w-len(val)*charW, y)
		}
	}
}

// modalColumns lays out one column per level inside the modal box. It is
// empty when the box is too small to hold them.
func modalColumns(box rect, n int) []rect {
	area := rect{x: box.x + 20, y: box.y + 56, w: box.w - 40, h: box.h - 76}
	if area.h <= 0 {
		return nil
	}
	cols := cardRects(area, n, 150, area.h, 4)
	if len(cols) < n {
		return nil
	}
	return cols
}
