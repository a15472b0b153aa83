package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
)

const (
	gap   = 12
	cardH = 96
)

// cardRects lays n cards of height cardH into r, using as many columns of at
// least minW as fit (at most maxCols).
func cardRects(r rect, n, minW, cardH, maxCols int) []rect {
	if n == 0 || r.w <= 0 {
		return nil
	}
	cols := max(1, min((r.w+gap)/(minW+gap), maxCols))
	w := (r.w - (cols-1)*gap) / cols
	out := make([]rect, n)
	for i := range out {
		col, row := i%cols, i/cols
		out[i] = rect{x: r.x + col*(w+gap), y: r.y + row*(cardH+gap), w: w, h: cardH}
	}
	return out
}

// pager moves through pages with buttons or the arrow keys.
type pager struct {
	page int
	prev *button
	next *button
}

func newPager() *pager {
	return &pager{page: 1, prev: newButton("< Prev", 0, 0, 80, 28), next: newButton("Next >", 0, 0, 80, 28)}
}

// place puts the controls at the bottom centre of r.
func (p *pager) place(r rect) {
	y := r.y + r.h - 32
	cx := r.x + r.w/2
	p.prev.x, p.prev.y = cx-140, y
	p.next.x, p.next.y = cx+60, y
}

// update applies clicks and arrow keys against totalPages.
func (p *pager) update(mx, my, totalPages int) {
	p.prev.enabled = p.page > 1
	p.next.enabled = p.page < totalPages
	if p.prev.update(mx, my) || (p.prev.enabled && inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)) {
		p.page--
	}
	if p.next.update(mx, my) || (p.next.enabled && inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)) {
		p.page++
	}
	p.page = max(1, min(p.page, totalPages))
}

func (p *pager) draw(screen *ebiten.Image, page, total int) {
	p.prev.draw(screen)
	p.next.draw(screen)
	label := fmt.Sprintf("Page %d of %d", page, total)
	cx := (p.prev.x + p.prev.w + p.next.x) / 2
	ebitenutil.DebugPrintAt(screen, label, cx-len(label)*charW/2, p.prev.y+6)
}

// drawSampleCard draws a sample tile in its theme. The border takes the
// accent colour when lit.
func drawSampleCard(screen *ebiten.Image, r rect, card dashboard.Card, lit bool) {
	theme := dashboard.CardThemes[card.Theme]
	border := color.Color(panelBorder)
	if lit {
		border = theme.Accent
	}
	drawPanel(screen, r, theme.Fill, border)
	ebitenutil.DebugPrintAt(screen, fit(card.SampleID, r.w/charW-2), r.x+10, r.y+10)
	ebitenutil.DebugPrintAt(screen, "Dominant: "+card.DominantKingdom, r.x+10, r.y+34)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Sequences: %d", card.TotalSequences), r.x+10, r.y+52)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Rare taxa: %d", card.RareTaxaCount), r.x+10, r.y+70)
}
