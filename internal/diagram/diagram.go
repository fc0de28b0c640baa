// Package diagram renders board positions as PNG images. The board is first
// described as SVG, rasterised with oksvg and rasterx, and then labelled with
// the Go fonts.
package diagram

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/hailam/retrochess/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultSquareSize is the edge of one square in pixels.
const DefaultSquareSize = 60

// Board colors.
var (
	Light     = color.RGBA{238, 238, 210, 255}
	Dark      = color.RGBA{118, 150, 86, 255}
	Highlight = color.RGBA{156, 204, 101, 255}
	Select    = color.RGBA{247, 236, 109, 255}
	Check     = color.RGBA{255, 102, 102, 255}
	Hint      = color.RGBA{135, 206, 250, 255}
	Text      = color.RGBA{25, 25, 25, 255}

	whiteDisc = color.RGBA{250, 250, 250, 255}
	blackDisc = color.RGBA{45, 45, 45, 255}
)

// Options controls what is drawn on top of the position. The zero Options
// selects a8, so start from NewOptions.
type Options struct {
	SquareSize int
	Selected   board.Square   // square of the selected piece, NoSquare for none
	Targets    []board.Square // legal destinations of the selected piece
	Hint       board.Move     // hint to outline, NoMove for none
	Flip       bool           // draw with Black at the bottom
}

// NewOptions returns options with nothing selected.
func NewOptions() Options {
	return Options{SquareSize: DefaultSquareSize, Selected: board.NoSquare}
}

func (o Options) withDefaults() Options {
	if o.SquareSize <= 0 {
		o.SquareSize = DefaultSquareSize
	}
	return o
}

// origin returns the top-left pixel of sq.
func (o Options) origin(sq board.Square) (x, y int) {
	col, row := sq.File(), sq.Rank()
	if o.Flip {
		col, row = 7-col, 7-row
	}
	return col * o.SquareSize, row * o.SquareSize
}

// SVG describes the board as an SVG document: squares, highlights and one
// disc per piece. Piece letters and coordinates are not part of it.
func SVG(pos board.Position, opts Options) string {
	opts = opts.withDefaults()
	sq := opts.SquareSize
	size := 8 * sq

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	sb.WriteByte('\n')

	fills := squareFills(pos, opts)
	for s := board.Square(0); s < board.NoSquare; s++ {
		x, y := opts.origin(s)
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n", x, y, sq, sq, hex(fills[s]))
	}

	if opts.Hint != board.NoMove {
		x, y := opts.origin(opts.Hint.To())
		fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="%s" stroke-width="4"/>`+"\n",
			x+2, y+2, sq-4, sq-4, hex(Hint))
	}

	r := float64(sq) * 0.38
	for s := board.Square(0); s < board.NoSquare; s++ {
		piece := pos.PieceAt(s)
		if piece == board.NoPiece {
			continue
		}
		x, y := opts.origin(s)
		fill := whiteDisc
		if piece.Color() == board.Black {
			fill = blackDisc
		}
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x+sq/2, y+sq/2, r, hex(fill), hex(Text))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// squareFills picks the background of every square. Later rules win:
// checkerboard, legal targets, selection, king in check.
func squareFills(pos board.Position, opts Options) [64]color.RGBA {
	var fills [64]color.RGBA
	for s := board.Square(0); s < board.NoSquare; s++ {
		if (s.Rank()+s.File())%2 == 0 {
			fills[s] = Light
		} else {
			fills[s] = Dark
		}
	}
	if opts.Selected.IsValid() {
		for _, t := range opts.Targets {
			if t.IsValid() {
				fills[t] = Highlight
			}
		}
		fills[opts.Selected] = Select
	}
	if pos.InCheck(pos.SideToMove) {
		if k, ok := pos.KingSquare(pos.SideToMove); ok {
			fills[k] = Check
		}
	}
	return fills
}

// Render draws pos into a new image of 8*SquareSize pixels per side.
func Render(pos board.Position, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	size := 8 * opts.SquareSize

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(pos, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse board svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLabels(rgba, pos, opts); err != nil {
		return nil, err
	}
	return rgba, nil
}

// WritePNG renders pos and encodes it as PNG to w.
func WritePNG(w io.Writer, pos board.Position, opts Options) error {
	img, err := Render(pos, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
