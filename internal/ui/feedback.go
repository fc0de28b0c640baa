// Package ui implements the terminal chess game: a text board, a line
// command loop and the player's preferences and statistics.
package ui

import (
	"errors"
	"fmt"

	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/session"
)

// InvalidMoveReason represents why a move was rejected.
type InvalidMoveReason int

const (
	ReasonUnknown InvalidMoveReason = iota
	ReasonWouldLeaveKingInCheck
	ReasonBlockedByOwnPiece
	ReasonInvalidPieceMovement
	ReasonNotYourTurn
	ReasonNotYourPiece
	ReasonGameOver
)

// String returns the message shown to the player.
func (r InvalidMoveReason) String() string {
	switch r {
	case ReasonWouldLeaveKingInCheck:
		return "Illegal move - King would be in check"
	case ReasonBlockedByOwnPiece:
		return "Square occupied by your piece"
	case ReasonInvalidPieceMovement:
		return "Invalid move for this piece"
	case ReasonNotYourTurn:
		return "Not your turn"
	case ReasonNotYourPiece:
		return "No piece of yours on that square"
	case ReasonGameOver:
		return "The game is over"
	default:
		return "Invalid move"
	}
}

// determineInvalidMoveReason analyzes why a move from src to dst by side is
// not legal in pos.
func determineInvalidMoveReason(pos board.Position, side board.Color, src, dst board.Square) InvalidMoveReason {
	if !src.IsValid() || !dst.IsValid() {
		return ReasonUnknown
	}
	piece := pos.PieceAt(src)
	if piece == board.NoPiece || piece.Color() != side {
		return ReasonNotYourPiece
	}

	destPiece := pos.PieceAt(dst)
	if destPiece != board.NoPiece && destPiece.Color() == piece.Color() {
		return ReasonBlockedByOwnPiece
	}

	// Generated but filtered out: it leaves the king in check.
	for _, to := range pos.PseudoMoves(src) {
		if to == dst {
			return ReasonWouldLeaveKingInCheck
		}
	}
	return ReasonInvalidPieceMovement
}

// reasonFor maps a session error to a reason. ok is false for errors that
// are not about the move itself.
func reasonFor(err error) (InvalidMoveReason, bool) {
	switch {
	case errors.Is(err, session.ErrNotYourTurn):
		return ReasonNotYourTurn, true
	case errors.Is(err, session.ErrNotYourPiece):
		return ReasonNotYourPiece, true
	case errors.Is(err, session.ErrGameOver):
		return ReasonGameOver, true
	}
	return ReasonUnknown, false
}

// describeStatus returns the announcement for a position just reached, or ""
// when there is nothing to announce.
func describeStatus(pos board.Position) string {
	st := pos.Status()
	switch st.Kind {
	case board.Checkmate:
		return fmt.Sprintf("Checkmate! %s wins!", st.Winner)
	case board.Stalemate:
		return "Stalemate - Draw"
	}
	if pos.InCheck(pos.SideToMove) {
		return "Check!"
	}
	return ""
}
