package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL needs. App satisfies it; tests
// can provide a lightweight stub.
type execIface interface {
	help() string
	exec(ctx context.Context, cmd string, args []string) error
}

// runREPL reads a line, splits it into a command and its arguments and
// dispatches to a. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Errors returned by commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "ums %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(out, a.help())
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			if err := a.exec(ctx, cmd, args); err != nil {
				fmt.Fprintln(out, "error:", err)
			}
		}
	}
}
