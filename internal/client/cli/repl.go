package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for fmt.Println.
var printlnFn = fmt.Println

type execIface interface {
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Forgot(ctx context.Context) error
	Captcha(ctx context.Context, args []string) error
	Google(ctx context.Context) error
	Callback(ctx context.Context, args []string) error
	Authorize(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	Lang(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

const helpText = `Commands:
  login                sign in with email and password
  register             create an account (a code is mailed first)
  forgot               reset a forgotten password
  captcha [email]      send a verification code
  google               start Google sign-in
  callback <url>       finish Google sign-in with the callback URL
  authorize <client>   get an authorization code for another client
  open <url>           navigate; ?logon=1 opens sign-in
  whoami               show the signed-in user
  logout               sign out
  lang [code]          show or set the language
  theme [light|dark]   show or set the theme
  exit                 quit`

func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Printf("portal (%s)> ", statusFn())
		if !scanner.Scan() {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "login":
			err = a.Login(ctx)
		case "register":
			err = a.Register(ctx)
		case "forgot":
			err = a.Forgot(ctx)
		case "captcha":
			err = a.Captcha(ctx, args)
		case "google":
			err = a.Google(ctx)
		case "callback":
			err = a.Callback(ctx, args)
		case "authorize":
			err = a.Authorize(ctx, args)
		case "open":
			err = a.Open(ctx, args)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "lang":
			err = a.Lang(ctx, args)
		case "theme":
			err = a.Theme(ctx, args)
		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err == errUsage {
			printlnFn("Usage: see `help` for " + cmd)
		} else if err != nil {
			printErr(err)
		}
	}
}
