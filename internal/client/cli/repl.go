package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	fail(err error)

	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	Google(ctx context.Context) error
	Logout(ctx context.Context) error
	TermsGate(ctx context.Context) error

	Pets(ctx context.Context) error
	Pet(ctx context.Context, id string) error
	AddPet(ctx context.Context) error
	QR(ctx context.Context, id string) error

	Membership(ctx context.Context) error
	Pricing(ctx context.Context) error
	Manage(ctx context.Context) error
	CheckIn(ctx context.Context, code string) error
	History(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Profile(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signup, login, google, pricing, help, exit"
	helpSignedIn  = "Available commands: dashboard, pets, pet <id>, addpet, qr <id>, checkin [code], history, membership, pricing, manage, profile, terms, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the yard client.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit". A command's error is shown with a.fail and the
// loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("yard %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "signup", "register":
			a.fail(a.SignUp(ctx))

		case "login":
			a.fail(a.Login(ctx))

		case "google":
			a.fail(a.Google(ctx))

		case "logout":
			a.fail(a.Logout(ctx))

		case "terms":
			a.fail(a.TermsGate(ctx))

		case "dashboard", "home":
			a.fail(a.Dashboard(ctx))

		case "pets", "l", "list":
			a.fail(a.Pets(ctx))

		case "pet", "show":
			if arg == "" {
				printlnFn("Usage: pet <id>")
				continue
			}
			a.fail(a.Pet(ctx, arg))

		case "addpet":
			a.fail(a.AddPet(ctx))

		case "qr":
			if arg == "" {
				printlnFn("Usage: qr <id>")
				continue
			}
			a.fail(a.QR(ctx, arg))

		case "membership":
			a.fail(a.Membership(ctx))

		case "pricing":
			a.fail(a.Pricing(ctx))

		case "manage":
			a.fail(a.Manage(ctx))

		case "checkin", "scan":
			a.fail(a.CheckIn(ctx, arg))

		case "history":
			a.fail(a.History(ctx))

		case "profile":
			a.fail(a.Profile(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
