package ui

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
	"github.com/iburimskiy/edna-dashboard/internal/upload"
)

type pickResult struct {
	path string
	err  error
}

type uploadView struct {
	selectBtn *button
	startBtn  *button
	cancelBtn *button
	picks     chan pickResult
	picking   bool
	field     *fieldLayer
	panel     rect
}

func newUploadView() *uploadView {
	return &uploadView{
		selectBtn: newButton("Select File", 0, 0, 140, 40),
		startBtn:  newButton("Start Processing", 0, 0, 160, 40),
		cancelBtn: newButton("Cancel", 0, 0, 100, 40),
		picks:     make(chan pickResult, 1),
	}
}

func (v *uploadView) enter(g *Game) {
	if v.field == nil {
		v.field = newFieldLayer("processing", g.cfg.MustField("processing"), g.rng)
	}
}

func (v *uploadView) leave() {
	if v.field != nil {
		v.field.teardown()
	}
}

// pickFile runs the native dialog off the game loop.
func (v *uploadView) pickFile() {
	v.picking = true
	go func() {
		path, err := zenity.SelectFile(
			zenity.Title("Select eDNA analysis file"),
			zenity.FileFilters{{
				Name:     "JSON",
				Patterns: []string{"*.json"},
			}},
		)
		v.picks <- pickResult{path: path, err: err}
	}()
}

func (v *uploadView) update(g *Game) error {
	c := g.content()
	pw, ph := min(c.w-48, 760), min(c.h-48, 420)
	v.panel = rect{x: c.x + (c.w-pw)/2, y: c.y + (c.h-ph)/2, w: pw, h: ph}
	p := v.panel

	v.selectBtn.x, v.selectBtn.y = p.x+24, p.y+70
	v.startBtn.x, v.startBtn.y = p.x+184, p.y+70
	v.cancelBtn.x, v.cancelBtn.y = p.x+364, p.y+70

	select {
	case res := <-v.picks:
		v.picking = false
		switch {
		case errors.Is(res.err, zenity.ErrCanceled):
		case res.err != nil:
			g.showErr(res.err)
		default:
			if err := g.sim.Select(res.path); err != nil {
				g.log.Debug("upload selection rejected", zap.String("path", res.path), zap.Error(err))
			}
		}
	default:
	}

	st := g.sim.Status()
	processing := st.State == upload.Processing
	v.selectBtn.enabled = !processing && !v.picking
	v.startBtn.enabled = !processing && st.File != ""
	v.cancelBtn.enabled = processing

	if v.selectBtn.update(g.mouseX, g.mouseY) {
		v.pickFile()
	}
	start := v.startBtn.update(g.mouseX, g.mouseY)
	if v.startBtn.enabled && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		start = true
	}
	if start {
		if err := g.sim.Start(); err != nil && !errors.Is(err, upload.ErrNoFile) {
			g.showErr(err)
		}
	}
	if v.cancelBtn.update(g.mouseX, g.mouseY) {
		g.sim.Cancel()
	}

	if processing {
		v.field.place(p.x, p.y, p.w, p.h)
		v.field.step(g.t)
	}
	return nil
}

func (v *uploadView) draw(screen *ebiten.Image, g *Game) {
	p := v.panel
	st := g.sim.Status()

	border := color.Color(panelBorder)
	if st.State == upload.Processing {
		border = dashboard.Cyan
	}
	drawPanel(screen, p, panelFill, border)
	if st.State == upload.Processing {
		v.field.draw(screen)
	}

	ebitenutil.DebugPrintAt(screen, "Upload eDNA Analysis", p.x+24, p.y+24)
	v.selectBtn.draw(screen)
	v.startBtn.draw(screen)
	v.cancelBtn.draw(screen)

	line := p.y + 130
	switch {
	case st.File != "":
		ebitenutil.DebugPrintAt(screen, "Selected: "+fit(filepath.Base(st.File), p.w/charW-14), p.x+24, line)
	case v.picking:
		ebitenutil.DebugPrintAt(screen, "Waiting for file dialog...", p.x+24, line)
	default:
		ebitenutil.DebugPrintAt(screen, "No file selected. Only .json files are accepted.", p.x+24, line)
	}
	if st.Err != nil {
		ebitenutil.DebugPrintAt(screen, st.Err.Error(), p.x+24, line+lineH+4)
	}

	switch st.State {
	case upload.Processing:
		bar := rect{x: p.x + 24, y: p.y + p.h - 110, w: p.w - 48, h: 24}
		drawProgressBar(screen, bar, float64(st.Progress)/100, g.t)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Processing... %d%%", st.Progress), bar.x, bar.y-lineH-6)
		elapsed := "Elapsed " + upload.FormatElapsed(st.Elapsed)
		ebitenutil.DebugPrintAt(screen, elapsed, bar.x+bar.w-len(elapsed)*charW, bar.y+bar.h+8)
	case upload.Complete:
		y := p.y + p.h - 100
		glow := 0.0
		if g.player != nil {
			glow = g.player.Level()
		}
		r := 14 + float32(40*glow)
		drawBadge(screen, float32(p.x+44), float32(y+8), r, dashboard.Green)
		ebitenutil.DebugPrintAt(screen, "Processing complete in "+upload.FormatElapsed(st.Elapsed)+". Select another file to run again.", p.x+72, y)
	}
}
