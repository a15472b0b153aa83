package ui

import (
	"context"
	"errors"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/iburimskiy/edna-dashboard/internal/chat"
	"github.com/iburimskiy/edna-dashboard/internal/dashboard"
)

const inputLimit = 500

type chatView struct {
	input   textInput
	send    *button
	replies chan error
	box     rect
	field   rect
	scroll  int // lines scrolled up from the bottom
}

func newChatView() *chatView {
	return &chatView{
		input:   textInput{limit: inputLimit},
		send:    newButton("Send", 0, 0, 80, 32),
		replies: make(chan error, 1),
	}
}

func (v *chatView) enter(g *Game) { v.scroll = 0 }

func (v *chatView) leave() {}

// submit sends the typed question without blocking the frame.
func (v *chatView) submit(g *Game) {
	text := strings.TrimSpace(v.input.String())
	if text == "" || g.chat.Busy() {
		return
	}
	v.input.take()
	v.scroll = 0
	timeout := orDuration(g.cfg.Chat.Timeout, time.Minute)
	go func() {
		ctx, cancel := context.WithTimeout(g.ctx, timeout)
		defer cancel()
		_, err := g.chat.Send(ctx, text)
		v.replies <- err
	}()
}

func (v *chatView) update(g *Game) error {
	c := g.content()
	v.box = rect{x: c.x + 24, y: c.y + 16, w: c.w - 48, h: c.h - 16 - 72}
	v.field = rect{x: c.x + 24, y: c.y + c.h - 52, w: c.w - 48 - 92, h: 32}
	v.send.x, v.send.y = v.field.x+v.field.w+12, v.field.y

	if g.chat == nil {
		v.send.enabled = false
		return nil
	}

	select {
	case err := <-v.replies:
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, chat.ErrNoAPIKey), errors.Is(err, chat.ErrEmptyResponse):
			g.log.Debug("chat reply fallback", zap.Error(err))
		default:
			g.showErr(err)
		}
	default:
	}

	busy := g.chat.Busy()
	v.send.enabled = !busy && strings.TrimSpace(v.input.String()) != ""
	if !busy {
		v.input.readKeys()
	}
	if v.send.update(g.mouseX, g.mouseY) || (!busy && inpututil.IsKeyJustPressed(ebiten.KeyEnter)) {
		v.submit(g)
	}

	_, wy := ebiten.Wheel()
	switch {
	case wy > 0 || inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		v.scroll += 3
	case wy < 0 || inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		v.scroll = max(v.scroll-3, 0)
	}
	return nil
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

type chatLine struct {
	text string
	role chat.Role
	head bool
}

// layoutMessages flattens the conversation into wrapped lines.
func layoutMessages(msgs []chat.Message, width int) []chatLine {
	var out []chatLine
	for _, m := range msgs {
		who := "You"
		if m.Role == chat.RoleBot {
			who = "E-DNA Bot"
		}
		out = append(out, chatLine{text: who + "  " + m.At.Format("15:04"), role: m.Role, head: true})
		for _, l := range wrapText(strings.ReplaceAll(m.Content, "**", ""), width) {
			out = append(out, chatLine{text: l, role: m.Role})
		}
		out = append(out, chatLine{role: m.Role})
	}
	return out
}

func (v *chatView) draw(screen *ebiten.Image, g *Game) {
	drawPanel(screen, v.box, panelFill, panelBorder)
	if g.chat == nil {
		ebitenutil.DebugPrintAt(screen, "The assistant is not configured. Set an API key to enable chat.", v.box.x+12, v.box.y+12)
		return
	}

	width := (v.box.w - 48) / charW
	lines := layoutMessages(g.chat.Messages(), width)
	busy := g.chat.Busy()
	if busy {
		dots := strings.Repeat(".", 1+int(g.t*3)%3)
		lines = append(lines, chatLine{text: "E-DNA Bot is typing" + dots, role: chat.RoleBot, head: true})
	}

	visible := max((v.box.h-24)/lineH, 1)
	v.scroll = min(v.scroll, max(len(lines)-visible, 0))
	end := len(lines) - v.scroll
	start := max(end-visible, 0)
	for i, l := range lines[start:end] {
		y := v.box.y + 12 + i*lineH
		x := v.box.x + 12
		if l.role == chat.RoleUser {
			x = v.box.x + 36
		}
		if l.head {
			clr := dashboard.Cyan
			if l.role == chat.RoleUser {
				clr = dashboard.Purple
			}
			vector.DrawFilledCircle(screen, float32(x-6), float32(y+8), 3, clr, true)
		} else if l.text != "" {
			vector.StrokeLine(screen, float32(x-6), float32(y), float32(x-6), float32(y+lineH), 1, mutedText, false)
		}
		ebitenutil.DebugPrintAt(screen, l.text, x, y)
	}

	var border color.Color = panelBorder
	if !busy {
		border = dashboard.Cyan
	}
	drawPanel(screen, v.field, panelFill, border)
	text := v.input.String()
	switch {
	case text == "" && busy:
		text = "Waiting for reply..."
	case text == "":
		text = "Ask about your eDNA analysis..."
	case int(g.t*2)%2 == 0:
		text += "_"
	}
	cols := v.field.w/charW - 2
	if r := []rune(text); len(r) > cols {
		text = string(r[len(r)-cols:])
	}
	ebitenutil.DebugPrintAt(screen, text, v.field.x+8, v.field.y+8)
	v.send.draw(screen)
}
