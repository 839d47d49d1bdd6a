// Package cli implements the agrogestctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/agrogest/agrogest/internal/accounts"
	"github.com/agrogest/agrogest/internal/rbac"
)

// AccountAdmin is the subset of the credential store the CLI drives.
type AccountAdmin interface {
	CreateAccount(ctx context.Context, in accounts.NewAccount) (accounts.Account, error)
	ResetPassword(ctx context.Context, username, password string) error
}

// UsersCLI provisions accounts from the command line.
type UsersCLI struct {
	accounts AccountAdmin
}

// NewUsersCLI constructs the helper.
func NewUsersCLI(admin AccountAdmin) *UsersCLI {
	return &UsersCLI{accounts: admin}
}

// UserAddOptions defines the flags of the useradd command.
type UserAddOptions struct {
	Username string
	Email    string
	Role     string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// PasswdOptions defines the flags of the passwd command.
type PasswdOptions struct {
	Username string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// UserAddCommand creates an account and returns the process exit code.
func (c *UsersCLI) UserAddCommand(ctx context.Context, opts UserAddOptions) int {
	stdin, stdout, stderr := streams(opts.Stdin, opts.Stdout, opts.Stderr)
	if opts.Username == "" || opts.Email == "" {
		_, _ = fmt.Fprintln(stderr, "useradd: --username and --email are required")
		return 2
	}
	role, err := rbac.ParseRole(opts.Role)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "useradd: %v\n", err)
		return 2
	}
	password, err := promptPassword(stdin, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "useradd: %v\n", err)
		return 1
	}
	account, err := c.accounts.CreateAccount(ctx, accounts.NewAccount{
		Username: opts.Username,
		Email:    opts.Email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "useradd: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "created %s (%s) id=%s\n", account.Username, account.Role, account.ID)
	return 0
}

// PasswdCommand replaces the password of an account.
func (c *UsersCLI) PasswdCommand(ctx context.Context, opts PasswdOptions) int {
	stdin, stdout, stderr := streams(opts.Stdin, opts.Stdout, opts.Stderr)
	if opts.Username == "" {
		_, _ = fmt.Fprintln(stderr, "passwd: --username is required")
		return 2
	}
	password, err := promptPassword(stdin, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "passwd: %v\n", err)
		return 1
	}
	if err := c.accounts.ResetPassword(ctx, opts.Username, password); err != nil {
		_, _ = fmt.Fprintf(stderr, "passwd: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "password updated for %s\n", opts.Username)
	return 0
}

func streams(in io.Reader, out, errOut io.Writer) (io.Reader, io.Writer, io.Writer) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return in, out, errOut
}
