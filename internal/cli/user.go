package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/bookexchange/internal/config"
	"github.com/mrlokans/bookexchange/internal/entrypoint"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCommand(), newUserTokenCommand())
	return cmd
}

func newUserCreateCommand() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account (password is prompted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			if isTerminal(cmd.InOrStdin()) {
				confirm, err := promptPassword(cmd, "Confirm password: ")
				if err != nil {
					return err
				}
				if confirm != password {
					return errors.New("passwords do not match")
				}
			}

			app, err := entrypoint.NewApp(config.NewConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Auth.CreateUser(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (3-64 characters)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserTokenCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a new API token, replacing the previous one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := entrypoint.NewApp(config.NewConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Auth.GetUserByLogin(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("failed to find user %q: %w", username, err)
			}

			token, err := app.Auth.GenerateToken(cmd.Context(), user.ID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username or email of the account")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// promptPassword reads a password without echo from a terminal, or a single
// line from any other input so the command can be scripted.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if isTerminal(in) {
		fd := int(in.(*os.File).Fd())
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
