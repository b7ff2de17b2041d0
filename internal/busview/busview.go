// Package busview implements an Ebitengine window that visualizes the
// CPU's 2 KiB RAM window as it runs: each byte is one pixel, brightness
// tracks its current value. It does not render a PPU framebuffer (that
// pipeline is out of scope) — it exists to give the ebiten dependency a
// concrete use even in the headless core this package serves.
package busview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"cyclenes/internal/console"
)

const (
	gridWidth  = 64 // 2048 bytes / 64 = 32 rows
	gridHeight = 32
	scale      = 8
)

// Game drives con for cyclesPerFrame bus cycles on every ebiten tick and
// renders the resulting RAM contents as a grid of pixels.
type Game struct {
	con            *console.Console
	cyclesPerFrame uint64
	img            *ebiten.Image
	buf            *image.RGBA
}

// New returns a Game ready to hand to ebiten.RunGame. con must already
// have a cartridge loaded and have been powered on.
func New(con *console.Console, cyclesPerFrame uint64) *Game {
	return &Game{
		con:            con,
		cyclesPerFrame: cyclesPerFrame,
		img:            ebiten.NewImage(gridWidth, gridHeight),
		buf:            image.NewRGBA(image.Rect(0, 0, gridWidth, gridHeight)),
	}
}

func (g *Game) Update() error {
	if !g.con.Halted() {
		g.con.RunCycles(g.cyclesPerFrame)
	}
	for i := 0; i < gridWidth*gridHeight; i++ {
		v := g.con.Bus.Read(uint16(i))
		x, y := i%gridWidth, i/gridWidth
		g.buf.Set(x, y, color.RGBA{v, v, v, 255})
	}
	g.img.WritePixels(g.buf.Pix)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.img, op)

	c := g.con.CPU
	status := fmt.Sprintf("PC:$%04X A:$%02X X:$%02X Y:$%02X S:$%02X cyc:%d",
		c.PC, c.A, c.X, c.Y, c.S, c.CycleCount())
	if c.Halted() {
		status += " HALTED"
		if f := c.LastFault(); f != nil {
			status += " " + f.Error()
		}
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return gridWidth * scale, gridHeight * scale
}
