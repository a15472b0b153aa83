// Package ui is the ebiten host of the dashboard: routing, views and the
// particle layers behind them.
package ui

import (
	"context"
	"errors"
	"image/color"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/edna-dashboard/internal/audio"
	"github.com/iburimskiy/edna-dashboard/internal/chat"
	"github.com/iburimskiy/edna-dashboard/internal/config"
	"github.com/iburimskiy/edna-dashboard/internal/fixture"
	"github.com/iburimskiy/edna-dashboard/internal/upload"
)

const headerH = 44

// view is one routed screen.
type view interface {
	enter(g *Game)
	leave()
	update(g *Game) error
	draw(screen *ebiten.Image, g *Game)
}

// Options wires the game to its collaborators.
type Options struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *fixture.Store
	Chat      *chat.Session
	Simulator *upload.Simulator
	Player    *audio.Player // nil disables the chime
	Rand      *rand.Rand
	Start     string
}

// Game implements ebiten.Game.
type Game struct {
	cfg    *config.Config
	log    *zap.Logger
	rng    *rand.Rand
	store  *fixture.Store
	chat   *chat.Session
	sim    *upload.Simulator
	player *audio.Player

	analysis *fixture.Analysis
	version  int
	reloaded atomic.Bool

	router     *Router
	drawer     Drawer
	views      map[Route]view
	background *fieldLayer

	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	t             float64
	tps           int
	mouseX        int
	mouseY        int
	lastErr       error
	errUntil      float64
}

func NewGame(opts Options) (*Game, error) {
	if opts.Config == nil || opts.Store == nil || opts.Simulator == nil {
		return nil, errors.New("ui: config, store and simulator are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	bg, err := opts.Config.Field("background")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		cfg:        opts.Config,
		log:        opts.Logger,
		rng:        opts.Rand,
		store:      opts.Store,
		chat:       opts.Chat,
		sim:        opts.Simulator,
		player:     opts.Player,
		analysis:   opts.Store.Current(),
		version:    opts.Store.Version(),
		router:     NewRouter(opts.Start),
		background: newFieldLayer("background", bg, opts.Rand),
		ctx:        ctx,
		cancel:     cancel,
		width:      opts.Config.Window.Width,
		height:     opts.Config.Window.Height,
		tps:        max(opts.Config.Window.TPS, 1),
	}
	g.views = map[Route]view{
		RouteHome:         &homeView{},
		RouteUpload:       newUploadView(),
		RouteAbundance:    newAbundanceView(),
		RouteDiversity:    &diversityView{},
		RouteNovelTaxa:    newNovelView(),
		RouteTaxaExplorer: newTaxaView(),
		RouteChatbot:      newChatView(),
	}

	opts.Store.Subscribe(func(*fixture.Analysis) { g.reloaded.Store(true) })
	g.sim.OnComplete(g.uploadComplete)
	g.views[g.router.Current()].enter(g)
	return g, nil
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.tps)
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Close stops background work started by views and tears down every field.
func (g *Game) Close() {
	g.cancel()
	g.views[g.router.Current()].leave()
	g.background.teardown()
}

func (g *Game) Update() error {
	if g.reloaded.Swap(false) {
		g.analysis = g.store.Current()
		g.version = g.store.Version()
		if g.chat != nil {
			g.chat.SetAnalysis(g.analysis)
		}
		g.log.Info("dashboard refreshed", zap.Int("version", g.version))
	}

	dt := 1.0 / float64(g.tps)
	g.t += dt
	g.mouseX, g.mouseY = ebiten.CursorPosition()

	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.drawer.Toggle()
	}
	if g.drawer.Open() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.drawer.Close()
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if i := g.drawer.itemAt(g.mouseX, g.mouseY); i >= 0 {
				g.navigate(string(navItems[i].route))
				g.drawer.Close()
			}
		}
		g.drawer.hover = g.drawer.itemAt(g.mouseX, g.mouseY)
	}
	if g.router.Current() != RouteChatbot || g.drawer.Open() {
		for i := range navItems {
			if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
				if r, ok := keyRoute(i); ok {
					g.navigate(string(r))
					g.drawer.Close()
				}
			}
		}
	}

	if g.router.Current() != RouteChatbot && inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.back()
	}

	g.background.place(0, 0, g.width, g.height)
	g.background.step(g.t)

	g.sim.Advance(time.Duration(dt * float64(time.Second)))

	if !g.drawer.Open() {
		if err := g.views[g.router.Current()].update(g); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.background.draw(screen)
	g.views[g.router.Current()].draw(screen, g)
	g.drawHeader(screen)
	if g.drawer.Open() {
		g.drawDrawer(screen)
	}
	if g.lastErr != nil && g.t < g.errUntil {
		ebitenutil.DebugPrintAt(screen, "Error: "+g.lastErr.Error(), 12, g.height-lineH-4)
	}
}

// Layout follows the window so resizing reflows every view and field.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(outsideWidth, 1), max(outsideHeight, 1)
	return g.width, g.height
}

func (g *Game) navigate(path string) {
	from := g.router.Current()
	if !g.router.Navigate(path) {
		return
	}
	g.views[from].leave()
	g.views[g.router.Current()].enter(g)
	g.log.Debug("navigate", zap.String("from", string(from)), zap.String("to", string(g.router.Current())))
}

func (g *Game) back() {
	from := g.router.Current()
	if !g.router.Back() {
		return
	}
	g.views[from].leave()
	g.views[g.router.Current()].enter(g)
}

// content is the area below the header.
func (g *Game) content() rect {
	return rect{x: 0, y: headerH, w: g.width, h: max(g.height-headerH, 0)}
}

func (g *Game) showErr(err error) {
	if err == nil {
		return
	}
	g.lastErr = err
	g.errUntil = g.t + 6
	g.log.Warn("ui error", zap.Error(err))
}

func (g *Game) uploadComplete(file string) {
	if g.player != nil && g.cfg.Upload.Chime {
		if err := g.player.PlayChime(); err != nil {
			g.log.Debug("chime skipped", zap.Error(err))
		}
	}
	if g.cfg.Upload.Notify {
		go func() {
			if err := zenity.Notify("Processing finished for "+file, zenity.Title("eDNA Dashboard")); err != nil {
				g.log.Debug("notification skipped", zap.Error(err))
			}
		}()
	}
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	// Slow dark gradient in 8px bands.
	for y := 0; y < g.height; y += 8 {
		ratio := float64(y) / float64(g.height)
		r := uint8(6 + 6*math.Sin(g.t*0.2+ratio*math.Pi))
		gv := uint8(12 + 8*math.Cos(g.t*0.15+ratio*math.Pi))
		b := uint8(24 + 12*math.Sin(g.t*0.25+ratio*math.Pi))
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.width), 8, color.RGBA{R: r, G: gv, B: b, A: 255}, false)
	}
}

func (g *Game) drawHeader(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(g.width), headerH, color.RGBA{R: 10, G: 15, B: 28, A: 230}, false)
	vector.StrokeLine(screen, 0, headerH, float32(g.width), headerH, 1, panelBorder, false)
	title := "eDNA Dashboard / " + g.router.Current().Title()
	if g.analysis != nil && g.analysis.Title != "" {
		title += "  -  " + g.analysis.Title
	}
	ebitenutil.DebugPrintAt(screen, title, 16, 14)
	hint := "Tab: menu  1-7: views  Backspace: back  Ctrl+Q: quit"
	ebitenutil.DebugPrintAt(screen, hint, g.width-len(hint)*charW-16, 14)
}

func (g *Game) drawDrawer(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, drawerWidth, float32(g.height), color.RGBA{R: 8, G: 12, B: 24, A: 240}, false)
	vector.StrokeLine(screen, drawerWidth, 0, drawerWidth, float32(g.height), 1, panelBorder, false)
	ebitenutil.DebugPrintAt(screen, "NAVIGATION", 16, 24)
	for i, it := range navItems {
		y := drawerTop + i*drawerRow
		if i == g.drawer.hover || it.route == g.router.Current() {
			clr := color.RGBA{R: 0, G: 146, B: 124, A: 120}
			if it.route == g.router.Current() {
				clr.A = 200
			}
			vector.DrawFilledRect(screen, 8, float32(y), drawerWidth-16, drawerRow-4, clr, false)
		}
		ebitenutil.DebugPrintAt(screen, string(rune('1'+i))+"  "+it.label, 20, y+9)
	}
}
