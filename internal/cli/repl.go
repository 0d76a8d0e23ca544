package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, id string) error

	Kinds(ctx context.Context) error
	AddKind(ctx context.Context, name string) error
	DeleteKind(ctx context.Context, name string) error

	Profiles(ctx context.Context) error
	AddProfile(ctx context.Context, name string) error
	DeleteProfile(ctx context.Context, id string) error

	SetAvatar(ctx context.Context, profileID, path string) error
	DeleteAvatar(ctx context.Context, profileID string) error

	Providers(ctx context.Context) error
	AddProvider(ctx context.Context) error
	DeleteProvider(ctx context.Context, id string) error

	SetPin(ctx context.Context) error
	Unlock(ctx context.Context) error
	LockNow(ctx context.Context) error
	DisableLock(ctx context.Context) error

	Reset(ctx context.Context) error
}

// runREPL reads a line, takes the first token as the command and
// dispatches. Handler errors are printed, never fatal; the loop only ends
// on EOF or an explicit exit.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("CardGuard CLI (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("cg %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn("cards:     (l)ist, show <id>, add, del <id>")
			printlnFn("kinds:     kinds, addkind <name>, delkind <name>")
			printlnFn("profiles:  profiles, addprofile <name>, delprofile <id>, avatar <id> <path>, delavatar <id>")
			printlnFn("providers: providers, addprovider, delprovider <id>")
			printlnFn("security:  setpin, unlock, lock, nolock")
			printlnFn("other:     reset, exit")

		case "l", "list":
			err = a.List(ctx)
		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, args[0])
		case "add":
			err = a.Add(ctx)
		case "del", "delete":
			if len(args) == 0 {
				printlnFn("Usage: del <id>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "kinds":
			err = a.Kinds(ctx)
		case "addkind":
			if len(args) == 0 {
				printlnFn("Usage: addkind <name>")
				continue
			}
			err = a.AddKind(ctx, strings.Join(args, " "))
		case "delkind":
			if len(args) == 0 {
				printlnFn("Usage: delkind <name>")
				continue
			}
			err = a.DeleteKind(ctx, strings.Join(args, " "))

		case "profiles":
			err = a.Profiles(ctx)
		case "addprofile":
			if len(args) == 0 {
				printlnFn("Usage: addprofile <name>")
				continue
			}
			err = a.AddProfile(ctx, strings.Join(args, " "))
		case "delprofile":
			if len(args) == 0 {
				printlnFn("Usage: delprofile <id>")
				continue
			}
			err = a.DeleteProfile(ctx, args[0])

		case "avatar":
			if len(args) < 2 {
				printlnFn("Usage: avatar <profile-id> <image-path>")
				continue
			}
			err = a.SetAvatar(ctx, args[0], args[1])
		case "delavatar":
			if len(args) == 0 {
				printlnFn("Usage: delavatar <profile-id>")
				continue
			}
			err = a.DeleteAvatar(ctx, args[0])

		case "providers":
			err = a.Providers(ctx)
		case "addprovider":
			err = a.AddProvider(ctx)
		case "delprovider":
			if len(args) == 0 {
				printlnFn("Usage: delprovider <id>")
				continue
			}
			err = a.DeleteProvider(ctx, args[0])

		case "setpin":
			err = a.SetPin(ctx)
		case "unlock":
			err = a.Unlock(ctx)
		case "lock":
			err = a.LockNow(ctx)
		case "nolock":
			err = a.DisableLock(ctx)

		case "reset":
			err = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", friendlyError(err))
		}
	}
}
