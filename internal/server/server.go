// Package server hosts games against the computer over a JSON HTTP API.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hailam/retrochess/internal/board"
	"github.com/hailam/retrochess/internal/diagram"
	"github.com/hailam/retrochess/internal/engine"
	"github.com/hailam/retrochess/internal/session"
)

var errBadRequest = errors.New("bad request")

// Config configures the HTTP app.
type Config struct {
	AllowOrigins string            // CORS origins (default "*")
	Difficulty   engine.Difficulty // used when a new game names none
	AccessLog    io.Writer         // request log (default os.Stderr)
	Quiet        bool              // no request log at all
}

// GameState is the JSON view of a game.
type GameState struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	FEN           string   `json:"fen"`
	Human         string   `json:"human"`
	Turn          string   `json:"turn"`
	Status        string   `json:"status"`
	Winner        string   `json:"winner,omitempty"`
	Message       string   `json:"message"`
	Check         bool     `json:"check"`
	Moves         []string `json:"moves"`
	LastMove      string   `json:"last_move,omitempty"`
	Hint          string   `json:"hint,omitempty"`
	HintsLeft     int      `json:"hints_left"`
	UndosLeft     int      `json:"undos_left"`
	HumanClock    float64  `json:"human_clock"`
	ComputerClock float64  `json:"computer_clock"`
	Difficulty    string   `json:"difficulty"`
}

type createRequest struct {
	Color      string `json:"color"`
	Difficulty string `json:"difficulty"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type controller struct {
	games    *GameManager
	defaults Config
}

// New builds the fiber app serving the game API.
func New(games *GameManager, cfg Config) *fiber.App {
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               "RetroChess",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	if !cfg.Quiet {
		out := cfg.AccessLog
		if out == nil {
			out = os.Stderr
		}
		app.Use(logger.New(logger.Config{
			Format:     "${time} [HTTP] ${status} ${method} ${path} ${latency}\n",
			TimeFormat: "2006/01/02 15:04:05",
			Output:     out,
		}))
	}

	gc := &controller{games: games, defaults: cfg}

	api := app.Group("/api")
	gameRoutes := api.Group("/games")
	gameRoutes.Post("/", gc.createGame)
	gameRoutes.Get("/", gc.listGames)
	gameRoutes.Get("/:id", gc.getGame)
	gameRoutes.Delete("/:id", gc.deleteGame)
	gameRoutes.Get("/:id/moves/:square", gc.legalMoves)
	gameRoutes.Post("/:id/move", gc.move)
	gameRoutes.Post("/:id/hint", gc.hint)
	gameRoutes.Post("/:id/undo", gc.undo)
	gameRoutes.Post("/:id/restart", gc.restart)
	gameRoutes.Get("/:id/board.png", gc.boardPNG)

	return app
}

func (gc *controller) createGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		}
	}

	human := board.White
	if req.Color != "" {
		col, ok := board.ParseColor(req.Color)
		if !ok {
			return fail(c, fmt.Errorf("%w: unknown color %q", errBadRequest, req.Color))
		}
		human = col
	}
	diff := gc.defaults.Difficulty
	if req.Difficulty != "" {
		d, err := engine.ParseDifficulty(req.Difficulty)
		if err != nil {
			return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		}
		diff = d
	}

	g, err := gc.games.Create(human, diff)
	if err != nil {
		return fail(c, err)
	}
	return gc.respond(c.Status(fiber.StatusCreated), g)
}

func (gc *controller) listGames(c *fiber.Ctx) error {
	games, err := gc.games.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"games": games})
}

func (gc *controller) getGame(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return gc.respond(c, g)
}

func (gc *controller) deleteGame(c *fiber.Ctx) error {
	if err := gc.games.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *controller) legalMoves(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	sq, err := board.ParseSquare(c.Params("square"))
	if err != nil {
		return fail(c, err)
	}

	var targets []board.Square
	err = gc.games.View(g, func(s *session.Session) error {
		targets, err = s.Select(sq)
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"square":  sq.String(),
		"targets": squareNames(targets),
	})
}

func (gc *controller) move(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
	}

	err = gc.games.Update(g, func(s *session.Session) error {
		if err := s.Play(strings.TrimSpace(req.Move)); err != nil {
			return err
		}
		return computerReply(s)
	})
	if err != nil {
		return fail(c, err)
	}
	return gc.respond(c, g)
}

func (gc *controller) hint(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	err = gc.games.Update(g, func(s *session.Session) error {
		_, err := s.Hint()
		return err
	})
	if err != nil {
		return fail(c, err)
	}
	return gc.respond(c, g)
}

func (gc *controller) undo(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if err := gc.games.Update(g, (*session.Session).Undo); err != nil {
		return fail(c, err)
	}
	return gc.respond(c, g)
}

func (gc *controller) restart(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	err = gc.games.Update(g, func(s *session.Session) error {
		s.Reset()
		return computerReply(s)
	})
	if err != nil {
		return fail(c, err)
	}
	return gc.respond(c, g)
}

// boardPNG renders the game. Query parameters: flip (default: true when the
// human plays Black) and select (a square whose legal moves are shown).
func (gc *controller) boardPNG(c *fiber.Ctx) error {
	g, err := gc.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	opts := diagram.NewOptions()
	if size := c.QueryInt("size", diagram.DefaultSquareSize); size >= 8 && size <= 200 {
		opts.SquareSize = size
	}
	selected := board.NoSquare
	if name := c.Query("select"); name != "" {
		if selected, err = board.ParseSquare(name); err != nil {
			return fail(c, err)
		}
	}

	var buf bytes.Buffer
	err = gc.games.View(g, func(s *session.Session) error {
		opts.Flip = c.QueryBool("flip", s.Human() == board.Black)
		opts.Hint = s.LastHint()
		if selected != board.NoSquare {
			opts.Selected = selected
			// Only the human's own pieces get their moves shown.
			opts.Targets, _ = s.Select(selected)
		}
		return diagram.WritePNG(&buf, s.Position(), opts)
	})
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(buf.Bytes())
}

func (gc *controller) respond(c *fiber.Ctx, g *Game) error {
	var state GameState
	_ = gc.games.View(g, func(s *session.Session) error {
		state = stateOf(g, s)
		return nil
	})
	return c.JSON(state)
}

func stateOf(g *Game, s *session.Session) GameState {
	pos := s.Position()
	st := s.Status()
	humanClock, computerClock := s.Clocks()

	state := GameState{
		ID:            g.ID,
		Name:          g.Name,
		FEN:           pos.ToFEN(),
		Human:         s.Human().String(),
		Turn:          s.Turn().String(),
		Status:        st.Kind.String(),
		Message:       s.Message(),
		Check:         pos.InCheck(pos.SideToMove),
		Moves:         []string{},
		HintsLeft:     s.HintsLeft(),
		UndosLeft:     s.UndosLeft(),
		HumanClock:    humanClock.Seconds(),
		ComputerClock: computerClock.Seconds(),
		Difficulty:    g.Difficulty.String(),
	}
	if st.Kind == board.Checkmate {
		state.Winner = st.Winner.String()
	}
	moves := s.Moves()
	for _, m := range moves {
		state.Moves = append(state.Moves, m.String())
	}
	if len(moves) > 0 {
		state.LastMove = moves[len(moves)-1].String()
	}
	if h := s.LastHint(); h != board.NoMove {
		state.Hint = h.String()
	}
	return state
}

func squareNames(squares []board.Square) []string {
	names := make([]string, 0, len(squares))
	for _, sq := range squares {
		names = append(names, sq.String())
	}
	return names
}

// fail writes err as {"error": ...} with a status matching its cause.
func fail(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, board.ErrInvalidSquare),
		errors.Is(err, session.ErrIllegalMove),
		errors.Is(err, session.ErrNotYourPiece):
		return fiber.StatusBadRequest
	case errors.Is(err, session.ErrGameOver),
		errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrNoHintsLeft),
		errors.Is(err, session.ErrNoUndosLeft),
		errors.Is(err, session.ErrNothingToUndo):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
