package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretReader reads passwords from the terminal without echo, or line by
// line when stdin is not a terminal
type secretReader struct {
	cmd   *cobra.Command
	lines *bufio.Reader
}

func newSecretReader(cmd *cobra.Command) *secretReader {
	return &secretReader{cmd: cmd, lines: bufio.NewReader(cmd.InOrStdin())}
}

func (r *secretReader) read(prompt string) (string, error) {
	if f, ok := r.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(r.cmd.ErrOrStderr(), prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := r.lines.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func passwordFlagOrPrompt(cmd *cobra.Command, r *secretReader) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	return r.read("Password: ")
}

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <user-id>",
		Short: "Create an account on the remote store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			password, err := passwordFlagOrPrompt(cmd, newSecretReader(cmd))
			if err != nil {
				return err
			}

			if err := ctx.Auth.Register(cmd.Context(), args[0], password); err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"user_id": args[0], "status": "registered"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run 'listahan login %s' to sign in.\n", args[0], args[0])
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	return cmd
}

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Sign in and remember the user for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			password, err := passwordFlagOrPrompt(cmd, newSecretReader(cmd))
			if err != nil {
				return err
			}

			if err := ctx.Auth.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}

			entries := ctx.Sync.ListAll(cmd.Context())

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"user_id": args[0], "entries": len(entries)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%d entries)\n", args[0], len(entries))
			return nil
		},
	}

	cmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	return cmd
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			purge, _ := cmd.Flags().GetBool("purge")
			if err := ctx.Auth.Logout(purge); err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "logged_out"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}

	cmd.Flags().Bool("purge", false, "also delete this user's cached entries")
	return cmd
}

// NewPasswdCmd creates the passwd command.
func NewPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the signed-in user's password",
		Long:  "Change the signed-in user's password. Reads the current password, the new one and its confirmation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return err
			}
			defer ctx.Close()

			r := newSecretReader(cmd)
			current, err := r.read("Current password: ")
			if err != nil {
				return err
			}
			next, err := r.read("New password: ")
			if err != nil {
				return err
			}
			confirm, err := r.read("Confirm new password: ")
			if err != nil {
				return err
			}

			if err := ctx.Auth.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
				return err
			}

			if ctx.JSONMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "password_changed"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully")
			return nil
		},
	}
}
