package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// execIface is the command surface the REPL dispatches to. args is the rest
// of the line after the command word, exactly as typed.
type execIface interface {
	Register(ctx context.Context, args string) error
	Login(ctx context.Context, args string) error
	Logout(ctx context.Context, args string) error
	Store(ctx context.Context, args string) error
	Get(ctx context.Context, args string) error
	Help(ctx context.Context, args string) error
	DirectMessages(ctx context.Context, args string) error
	println(s string)
}

// cutWord splits the first word off line. Leading blanks are skipped and
// exactly one blank after the word is dropped; rest keeps everything else.
// found is false when nothing follows the word.
func cutWord(line string) (word, rest string, found bool) {
	line = strings.TrimLeft(line, " \t")
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, "", false
	}
	return line[:i], line[i+1:], true
}

// runREPL reads one command per line from scanner and dispatches it to a.
// The leading slash is optional. The loop ends on EOF, "exit"/"quit" or
// when ctx is done. Handler errors have already been shown to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		a.println(fmt.Sprintf("dk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		word, args, _ := cutWord(scanner.Text())
		if word == "" {
			continue
		}

		switch strings.TrimPrefix(word, "/") {
		case "register":
			_ = a.Register(ctx, args)
		case "login":
			_ = a.Login(ctx, args)
		case "logout":
			_ = a.Logout(ctx, args)
		case "store":
			_ = a.Store(ctx, args)
		case "get":
			_ = a.Get(ctx, args)
		case "help", "storage_help":
			_ = a.Help(ctx, args)
		case "dm":
			_ = a.DirectMessages(ctx, args)
		case "exit", "quit":
			a.println("Bye!")
			return
		default:
			a.println("Unknown command: " + word)
		}
	}
}
