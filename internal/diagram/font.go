package diagram

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/hailam/retrochess/internal/board"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	fontsErr    error
	boldFont    *opentype.Font
	regularFont *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if boldFont, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			return
		}
		regularFont, fontsErr = opentype.Parse(goregular.TTF)
	})
	if fontsErr != nil {
		return fmt.Errorf("load fonts: %w", fontsErr)
	}
	return nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// drawLabels writes the piece letters in the discs and the coordinates along
// the left and bottom edges.
func drawLabels(dst *image.RGBA, pos board.Position, opts Options) error {
	if err := loadFonts(); err != nil {
		return err
	}
	sq := opts.SquareSize

	pieceFace, err := newFace(boldFont, float64(sq)*0.45)
	if err != nil {
		return err
	}
	defer pieceFace.Close()

	coordFace, err := newFace(regularFont, float64(sq)*0.2)
	if err != nil {
		return err
	}
	defer coordFace.Close()

	for s := board.Square(0); s < board.NoSquare; s++ {
		piece := pos.PieceAt(s)
		if piece == board.NoPiece {
			continue
		}
		ink := color.Color(Text)
		if piece.Color() == board.Black {
			ink = whiteDisc
		}
		x, y := opts.origin(s)
		drawCentered(dst, pieceFace, ink, strings.ToUpper(piece.String()), x+sq/2, y+sq/2)
	}

	pad := sq / 20
	for i := 0; i < 8; i++ {
		// Left column carries the rank digits, bottom row the file letters.
		rankSq := board.NewSquare(i, 0)
		fileSq := board.NewSquare(7, i)
		if opts.Flip {
			rankSq = board.NewSquare(7-i, 7)
			fileSq = board.NewSquare(0, 7-i)
		}

		x, y := opts.origin(rankSq)
		ascent := coordFace.Metrics().Ascent.Ceil()
		drawString(dst, coordFace, Text, rankSq.String()[1:], x+pad, y+pad+ascent)

		x, y = opts.origin(fileSq)
		label := fileSq.String()[:1]
		w := font.MeasureString(coordFace, label).Ceil()
		drawString(dst, coordFace, Text, label, x+sq-pad-w, y+sq-pad)
	}
	return nil
}

// drawCentered draws s centred on (cx, cy).
func drawCentered(dst *image.RGBA, face font.Face, ink color.Color, s string, cx, cy int) {
	m := face.Metrics()
	w := font.MeasureString(face, s).Ceil()
	baseline := cy + (m.Ascent.Ceil()-m.Descent.Ceil())/2
	drawString(dst, face, ink, s, cx-w/2, baseline)
}

func drawString(dst *image.RGBA, face font.Face, ink color.Color, s string, x, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}
