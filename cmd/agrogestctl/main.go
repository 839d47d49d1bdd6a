package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrogest/agrogest/cmd/agrogestctl/cli"
	"github.com/agrogest/agrogest/internal/app"
)

const usage = `usage: agrogestctl <command> [flags]

commands:
  useradd --username NAME --email EMAIL --role ROLE   create an account
  passwd  --username NAME                             reset an account password

The password is prompted for on a terminal or read from stdin.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("username", "", "account username")

	var email, role *string
	switch cmd {
	case "useradd":
		email = fs.String("email", "", "account email")
		role = fs.String("role", "viewer", "account role")
	case "passwd":
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(stdout, usage)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	if err := fs.Parse(rest); err != nil {
		return 2
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if cfg.CredentialStore == app.BackendMemory {
		_, _ = fmt.Fprintln(stderr, "CREDENTIAL_STORE=memory does not persist; set it to postgres or redis")
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	backends, err := app.OpenBackends(ctx, cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "open storage: %v\n", err)
		return 1
	}
	defer backends.Close()

	services, err := app.NewServices(cfg, backends, logger, nil, nil)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "init services: %v\n", err)
		return 1
	}
	users := cli.NewUsersCLI(services.Accounts)

	switch cmd {
	case "useradd":
		return users.UserAddCommand(ctx, cli.UserAddOptions{
			Username: *username,
			Email:    *email,
			Role:     *role,
			Stdout:   stdout,
			Stderr:   stderr,
		})
	default:
		return users.PasswdCommand(ctx, cli.PasswdOptions{
			Username: *username,
			Stdout:   stdout,
			Stderr:   stderr,
		})
	}
}
