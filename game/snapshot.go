package game

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chainreaction/utils"
)

const (
	emptyGlyph = "⚫"
	redGlyph   = "🔴"
	blueGlyph  = "🔵"
)

// Snapshot header keys. The first four describe the game; the rest carry a move request.
const (
	KeyLastPlayer = "LastPlayer"
	KeyMoveCount  = "MoveCount"
	KeyGameOver   = "GameOver"
	KeyWinner     = "Winner"
	KeyPlayer     = "Player"
	KeyRow        = "Row"
	KeyCol        = "Col"
	keyBoard      = "Board"

	// KeyAIMoveRequest marks a request for the AI to move. The frontend appends it as an
	// "AI_MOVE_REQUEST:<side>" line after the board.
	KeyAIMoveRequest = "AI_MOVE_REQUEST"
)

var (
	stateKeys   = []string{KeyLastPlayer, KeyMoveCount, KeyGameOver, KeyWinner}
	requestKeys = []string{KeyPlayer, KeyRow, KeyCol}
)

// ErrNotFound is returned when there is no snapshot to load.
var ErrNotFound = errors.New("game state not found")

// ParseError describes malformed snapshot content. Line is 1-based, 0 when the problem is not
// tied to a single line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid game state at line %d: %s", e.Line, e.Msg)
	}
	return "invalid game state: " + e.Msg
}

// Snapshot is a parsed game state file: the label on its first line, the reconstructed state,
// and every recognised header field as written. An AI move request line is recorded under
// KeyAIMoveRequest with the side it names.
type Snapshot struct {
	Label  string
	State  *GameState
	Fields map[string]string
}

// Field returns a header value and whether it was present.
func (s *Snapshot) Field(key string) (string, bool) {
	v, ok := s.Fields[key]
	return v, ok
}

// AIMoveRequested reports whether the snapshot carries an AI move request, either as its label
// or as a request line.
func (s *Snapshot) AIMoveRequested() bool {
	_, ok := s.Fields[KeyAIMoveRequest]
	return ok || s.Label == KeyAIMoveRequest
}

// Format renders gs in the snapshot text format under the given label.
func (gs *GameState) Format(label string) string {
	lastPlayer := Blue
	if gs.moveCount > 0 {
		lastPlayer = gs.currentPlayer.Opponent()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", label)
	fmt.Fprintf(&b, "%s: %s\n", KeyLastPlayer, lastPlayer)
	fmt.Fprintf(&b, "%s: %d\n", KeyMoveCount, gs.moveCount)
	if gs.over {
		fmt.Fprintf(&b, "%s: True\n", KeyGameOver)
	} else {
		fmt.Fprintf(&b, "%s: False\n", KeyGameOver)
	}
	if gs.winner != None {
		fmt.Fprintf(&b, "%s: %s\n", KeyWinner, gs.winner)
	}
	b.WriteString(keyBoard + ":")

	for row := 0; row < gs.grid.rows; row++ {
		b.WriteByte('\n')
		for col := 0; col < gs.grid.cols; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(gs.grid.Cell(row, col).String())
		}
	}
	return b.String()
}

// WriteSnapshot writes gs to w in the snapshot text format.
func WriteSnapshot(w io.Writer, gs *GameState, label string) error {
	_, err := io.WriteString(w, gs.Format(label))
	return err
}

// String renders c as a snapshot board token.
func (c Cell) String() string {
	switch c.Owner {
	case Red:
		return redGlyph + strconv.Itoa(c.Orbs)
	case Blue:
		return blueGlyph + strconv.Itoa(c.Orbs)
	default:
		return emptyGlyph
	}
}

// ReadSnapshot parses a snapshot from r. See ParseSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}
	return ParseSnapshot(string(content))
}

// ParseSnapshot rebuilds a game from its text form. Header lines are optional. When the
// last mover is recorded, the side to move is its opponent and the move count is taken from
// the header; otherwise both are derived from the orbs on the board. The outcome is always
// re-derived from the board, never read from the header.
func ParseSnapshot(content string) (*Snapshot, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ParseError{Msg: "empty content"}
	}
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	snap := &Snapshot{
		Label:  strings.TrimSuffix(strings.TrimSpace(lines[0]), ":"),
		Fields: make(map[string]string),
	}
	// Request lines are blanked so line numbers in errors stay accurate
	for i, line := range lines {
		side, ok := strings.CutPrefix(strings.TrimSpace(line), KeyAIMoveRequest+":")
		if !ok {
			continue
		}
		snap.Fields[KeyAIMoveRequest] = strings.TrimSpace(side)
		if i == 0 {
			snap.Label = KeyAIMoveRequest
		} else {
			lines[i] = ""
		}
	}

	boardStart := -1
	for i := 1; i < len(lines) && boardStart < 0; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if line == keyBoard+":" {
			boardStart = i + 1
			break
		}
		key, value, ok := headerField(line)
		if !ok {
			boardStart = i
			break
		}
		snap.Fields[key] = value
	}
	if boardStart < 0 {
		return nil, &ParseError{Msg: "no board data found"}
	}

	gs, err := parseBoard(lines, boardStart)
	if err != nil {
		return nil, err
	}
	if err := restore(gs, snap.Fields); err != nil {
		return nil, err
	}
	snap.State = gs
	return snap, nil
}

// headerField splits a "Key: value" line whose key is one of the known header keys.
func headerField(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	if utils.FindIndex(stateKeys, key) < 0 && utils.FindIndex(requestKeys, key) < 0 {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func parseBoard(lines []string, start int) (*GameState, error) {
	var rows [][]string
	var lineNumbers []int
	for i := start; i < len(lines); i++ {
		tokens := strings.Fields(lines[i])
		if len(tokens) == 0 {
			continue
		}
		rows = append(rows, tokens)
		lineNumbers = append(lineNumbers, i+1)
	}
	if len(rows) == 0 {
		return nil, &ParseError{Line: start, Msg: "no board data found"}
	}

	cols := len(rows[0])
	if len(rows) < 2 || cols < 2 {
		return nil, &ParseError{Line: lineNumbers[0], Msg: fmt.Sprintf("board must be at least 2x2, got %dx%d", len(rows), cols)}
	}

	gs := NewGameState(len(rows), cols)
	for row, tokens := range rows {
		if len(tokens) != cols {
			return nil, &ParseError{
				Line: lineNumbers[row],
				Msg:  fmt.Sprintf("inconsistent column count in row %d: expected %d, got %d", row, cols, len(tokens)),
			}
		}
		for col, token := range tokens {
			cell, err := parseCell(token)
			if err != nil {
				return nil, &ParseError{Line: lineNumbers[row], Msg: err.Error()}
			}
			gs.grid.set(row, col, cell)
		}
	}
	return gs, nil
}

// parseCell accepts the glyph format ("⚫", "🔴3", "🔵") and the legacy numeric one ("0",
// "3R", "1B"). A glyph without a count holds one orb.
func parseCell(token string) (Cell, error) {
	if token == emptyGlyph || token == "0" {
		return Cell{}, nil
	}

	var owner Player
	var count string
	legacy := false
	if rest, ok := strings.CutPrefix(token, redGlyph); ok {
		owner, count = Red, rest
	} else if rest, ok := strings.CutPrefix(token, blueGlyph); ok {
		owner, count = Blue, rest
	} else if rest, ok := strings.CutSuffix(token, "R"); ok {
		owner, count, legacy = Red, rest, true
	} else if rest, ok := strings.CutSuffix(token, "B"); ok {
		owner, count, legacy = Blue, rest, true
	} else {
		return Cell{}, fmt.Errorf("invalid cell format %q", token)
	}

	orbs := 1
	if count != "" || legacy {
		n, err := strconv.Atoi(count)
		if err != nil {
			return Cell{}, fmt.Errorf("invalid orb count in cell %q", token)
		}
		orbs = n
	}
	if orbs < 1 {
		return Cell{}, fmt.Errorf("owned cell %q must hold at least one orb", token)
	}
	return Cell{Orbs: orbs, Owner: owner}, nil
}

func restore(gs *GameState, fields map[string]string) error {
	if utils.HasAnyKey(fields, stateKeys) {
		if v, ok := fields[KeyMoveCount]; ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return &ParseError{Msg: fmt.Sprintf("invalid move count %q", v)}
			}
			gs.moveCount = n
		}
		if last := fields[KeyLastPlayer]; last != "" {
			gs.currentPlayer = Red
			if strings.EqualFold(last, Red.String()) {
				gs.currentPlayer = Blue
			}
		} else {
			restoreFromBoard(gs)
		}
	} else {
		restoreFromBoard(gs)
	}

	gs.checkWinCondition()
	return nil
}

// restoreFromBoard treats every orb on the board as one placement. Red moves on even totals.
func restoreFromBoard(gs *GameState) {
	red, blue := gs.grid.orbs()
	gs.moveCount = red + blue
	gs.currentPlayer = Red
	if gs.moveCount%2 == 1 {
		gs.currentPlayer = Blue
	}
}
