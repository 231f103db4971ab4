package matiserver

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mlopezgez/matidb/database"
)

// RunREPL drives an interactive session against db, reading lines with
// readline (history and line editing) and printing each response to
// out.
func RunREPL(db *database.Database, out io.Writer) error {
	rl, err := readline.New("matidb > ")
	if err != nil {
		return fmt.Errorf("matiserver: readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(out, "MatiDB REPL")
	fmt.Fprintln(out, `Type SQL statements, or "tables" / "flush" / "exit".`)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("matiserver: readline: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		resp, shouldExit := Dispatch(db, line)
		if resp.OK {
			fmt.Fprintln(out, resp.Content)
		} else {
			fmt.Fprintln(out, "Error:", resp.Content)
		}
		if shouldExit {
			break
		}
	}

	return db.Close()
}
