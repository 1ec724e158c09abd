//go:build !headless

package viewer

import (
	"context"
	"errors"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lukaszgryglicki/lenticalib/internal/lenticalib"
)

type binding struct {
	key    ebiten.Key
	action Action
}

// Checked in order, one action per key per tick.
var bindings = []binding{
	{ebiten.KeySpace, ActionTogglePlay},
	{ebiten.KeyTab, ActionCapture},
	{ebiten.KeyArrowUp, ActionCapture},
	{ebiten.KeyArrowLeft, ActionBackward},
	{ebiten.KeyArrowRight, ActionForward},
	{ebiten.KeyBracketLeft, ActionFocalDown},
	{ebiten.KeyBracketRight, ActionFocalUp},
	{ebiten.KeyMinus, ActionPitchDown},
	{ebiten.KeyEqual, ActionPitchUp},
	{ebiten.KeyComma, ActionAngleDown},
	{ebiten.KeyPeriod, ActionAngleUp},
	{ebiten.KeyEscape, ActionQuit},
}

type game struct {
	ctx    context.Context
	sess   *lenticalib.Session
	width  int
	height int
	canvas *ebiten.Image
	rgba   []byte
	shown  uint64
	status string
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	for _, b := range bindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		err := Dispatch(g.ctx, g.sess, b.action)
		switch {
		case errors.Is(err, ErrQuit):
			return ebiten.Termination
		case err != nil:
			// Rejected adjustments keep the old frame; show why.
			g.status = err.Error()
		default:
			g.status = ""
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.sess.Latest()
	if f == nil {
		return
	}
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(g.width, g.height)
	}
	if f.Seq != g.shown {
		g.rgba = f.Canvas.RGBA(g.rgba)
		g.canvas.WritePixels(g.rgba)
		g.shown = f.Seq
	}
	screen.DrawImage(g.canvas, nil)

	lines := f.State.Label()
	if f.State.Mode == lenticalib.Playing {
		lines = append(lines, "[playing]")
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 8)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens a window on the session's latest frame and blocks until it is
// closed, Escape is pressed or ctx is done. It must be called from the main
// goroutine. The session must have been started.
func Run(ctx context.Context, sess *lenticalib.Session) error {
	f := sess.Latest()
	if f == nil {
		return errors.New("viewer: session has no frame, call Start first")
	}
	defer sess.Close()

	g := &game{ctx: ctx, sess: sess, width: f.Canvas.Width, height: f.Canvas.Height}
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("lenticalib")
	ebiten.SetWindowResizable(true)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
