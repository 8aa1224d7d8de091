package player

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chainreaction/game"
)

// Prompter asks questions on out and reads answers from in, one line each. Invalid answers are
// explained and asked again.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// line prints prompt and returns the next input line. The input running out is an error.
func (p *Prompter) line(prompt string) (string, error) {
	p.Printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Int asks until the answer is a number in [lo, hi].
func (p *Prompter) Int(prompt string, lo, hi int) (int, error) {
	return p.ask(prompt, lo, hi, nil)
}

// IntOr is Int where an empty answer picks def.
func (p *Prompter) IntOr(prompt string, lo, hi, def int) (int, error) {
	return p.ask(prompt, lo, hi, &def)
}

func (p *Prompter) ask(prompt string, lo, hi int, def *int) (int, error) {
	for {
		text, err := p.line(prompt)
		if err != nil {
			return 0, err
		}
		if text == "" && def != nil {
			return *def, nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			p.Printf("Invalid input. Please enter a number.\n")
			continue
		}
		if n < lo || n > hi {
			p.Printf("Invalid input. Please enter a number between %d and %d.\n", lo, hi)
			continue
		}
		return n, nil
	}
}

// Move asks player for a legal move on gs as "row col".
func (p *Prompter) Move(gs *game.GameState, player game.Player) (game.Move, error) {
	p.Printf("\n%s player's turn\n", player)
	for {
		text, err := p.line("Enter move as 'row col' (0-indexed, e.g., '0 1'): ")
		if err != nil {
			return game.Move{}, err
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			p.Printf("Invalid input. Please enter two numbers separated by a space.\n")
			continue
		}
		row, errRow := strconv.Atoi(fields[0])
		col, errCol := strconv.Atoi(fields[1])
		if errRow != nil || errCol != nil {
			p.Printf("Invalid input. Please enter two numbers separated by a space.\n")
			continue
		}

		if !gs.Grid().InBounds(row, col) {
			p.Printf("Invalid position! Row must be 0-%d, column must be 0-%d.\n", gs.Rows()-1, gs.Cols()-1)
			continue
		}
		if !gs.IsValidMove(row, col, player) {
			p.Printf("That cell belongs to %s! You can only place on empty cells or your own cells.\n", gs.Cell(row, col).Owner)
			continue
		}
		return game.Move{Row: row, Col: col}, nil
	}
}
