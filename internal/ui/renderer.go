package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hailam/retrochess/internal/board"
)

// Theme defines the color scheme for the board. Square colors are
// backgrounds, piece colors foregrounds.
type Theme struct {
	LightSquare    color.Attribute
	DarkSquare     color.Attribute
	SelectedSquare color.Attribute
	LegalMoveColor color.Attribute
	LastMoveColor  color.Attribute
	CheckColor     color.Attribute
	HintColor      color.Attribute
	WhitePiece     color.Attribute
	BlackPiece     color.Attribute
	Coordinates    color.Attribute
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.BgHiWhite,
		DarkSquare:     color.BgGreen,
		SelectedSquare: color.BgYellow,
		LegalMoveColor: color.BgHiGreen,
		LastMoveColor:  color.BgHiYellow,
		CheckColor:     color.BgRed,
		HintColor:      color.BgCyan,
		WhitePiece:     color.FgHiBlue,
		BlackPiece:     color.FgBlack,
		Coordinates:    color.Faint,
	}
}

// Highlights are the squares marked on top of the position.
type Highlights struct {
	Selected board.Square
	Targets  []board.Square
	LastMove board.Move
	Hint     board.Move
}

// NoHighlights marks nothing.
func NoHighlights() Highlights {
	return Highlights{Selected: board.NoSquare}
}

// Renderer draws the board as text, one row per rank.
type Renderer struct {
	theme    *Theme
	useColor bool
	flipped  bool
}

// NewRenderer creates a renderer. Without useColor the output is plain text.
func NewRenderer(useColor bool) *Renderer {
	return &Renderer{theme: DefaultTheme(), useColor: useColor}
}

// paint wraps s in the given attributes.
func (r *Renderer) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if r.useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// SetFlipped draws the board from Black's side when flipped is true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// DrawBoard writes pos with the highlights to w.
func (r *Renderer) DrawBoard(w io.Writer, pos board.Position, hl Highlights) {
	var sb strings.Builder
	files := "    a  b  c  d  e  f  g  h\n"
	if r.flipped {
		files = "    h  g  f  e  d  c  b  a\n"
	}

	sb.WriteString(r.paint(files, r.theme.Coordinates))
	for i := 0; i < 8; i++ {
		row := i
		if r.flipped {
			row = 7 - i
		}
		label := fmt.Sprintf(" %d ", 8-row)
		sb.WriteString(r.paint(label, r.theme.Coordinates))
		for j := 0; j < 8; j++ {
			col := j
			if r.flipped {
				col = 7 - j
			}
			sq := board.NewSquare(row, col)
			sb.WriteString(r.cell(pos, sq, hl))
		}
		sb.WriteString(r.paint(label, r.theme.Coordinates))
		sb.WriteByte('\n')
	}
	sb.WriteString(r.paint(files, r.theme.Coordinates))

	io.WriteString(w, sb.String())
}

func (r *Renderer) cell(pos board.Position, sq board.Square, hl Highlights) string {
	bg := r.background(pos, sq, hl)
	piece := pos.PieceAt(sq)
	if piece == board.NoPiece {
		return r.paint(" . ", bg, color.FgBlack)
	}
	ink := r.theme.WhitePiece
	if piece.Color() == board.Black {
		ink = r.theme.BlackPiece
	}
	return r.paint(" "+piece.String()+" ", bg, ink, color.Bold)
}

// background picks the square color. Later rules win: checkerboard, last
// move, legal targets, hint, selection, king in check.
func (r *Renderer) background(pos board.Position, sq board.Square, hl Highlights) color.Attribute {
	bg := r.theme.LightSquare
	if (sq.Rank()+sq.File())%2 == 1 {
		bg = r.theme.DarkSquare
	}
	if hl.LastMove != board.NoMove && (sq == hl.LastMove.From() || sq == hl.LastMove.To()) {
		bg = r.theme.LastMoveColor
	}
	for _, t := range hl.Targets {
		if t == sq {
			bg = r.theme.LegalMoveColor
		}
	}
	if hl.Hint != board.NoMove && (sq == hl.Hint.From() || sq == hl.Hint.To()) {
		bg = r.theme.HintColor
	}
	if sq == hl.Selected {
		bg = r.theme.SelectedSquare
	}
	if k, ok := pos.KingSquare(pos.SideToMove); ok && k == sq && pos.InCheck(pos.SideToMove) {
		bg = r.theme.CheckColor
	}
	return bg
}
