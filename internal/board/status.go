package board

// StatusKind classifies a position from the point of view of the side to move.
type StatusKind uint8

const (
	Ongoing StatusKind = iota
	Checkmate
	Stalemate
)

// String returns the status kind name.
func (k StatusKind) String() string {
	switch k {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Status is the game state of a position. Winner is set only for checkmate.
type Status struct {
	Kind   StatusKind
	Winner Color
}

// IsOver returns true for checkmate and stalemate.
func (s Status) IsOver() bool {
	return s.Kind != Ongoing
}

// String returns a short description such as "checkmate (Black wins)".
func (s Status) String() string {
	if s.Kind == Checkmate {
		return "checkmate (" + s.Winner.String() + " wins)"
	}
	return s.Kind.String()
}

// Status classifies the position for its side to move.
func (p Position) Status() Status {
	return p.StatusFor(p.SideToMove)
}

// StatusFor classifies the position as if side were to move. A side with any
// legal move is ongoing; otherwise it is checkmated when in check and
// stalemated when not. A side with no king counts as checkmated.
func (p Position) StatusFor(side Color) Status {
	if p.HasLegalMoves(side) {
		return Status{Kind: Ongoing, Winner: NoColor}
	}
	if p.InCheck(side) {
		return Status{Kind: Checkmate, Winner: side.Other()}
	}
	return Status{Kind: Stalemate, Winner: NoColor}
}

// IsCheckmate returns true if the side to move is checkmated.
func (p Position) IsCheckmate() bool {
	return p.Status().Kind == Checkmate
}

// IsStalemate returns true if the side to move is stalemated.
func (p Position) IsStalemate() bool {
	return p.Status().Kind == Stalemate
}
