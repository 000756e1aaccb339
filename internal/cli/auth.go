package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"campus-rental-client/internal/domain"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time.
var Version = "dev"

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "campusrent", Version)
		},
	}
}

func NewLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Example: `  campusrent login --email asha@college.edu
  echo "$PASSWORD" | campusrent login --email asha@college.edu`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				email, _ = in.ReadString('\n')
			}
			password, err := readSecret(cmd, in, "Password: ")
			if err != nil {
				return err
			}

			user, err := cliCtx.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func NewRegisterCmd() *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			password, err := readSecret(cmd, in, "Choose a password: ")
			if err != nil {
				return err
			}
			reg.Password = password

			user, err := cliCtx.Session.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Welcome, %s!\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "college email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&reg.College, "college", "", "college")
	cmd.Flags().StringVar(&reg.Department, "department", "", "department")
	cmd.Flags().StringVar(&reg.Year, "year", "", "year of study")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func NewWhoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}
			user, err := cliCtx.Session.RequireUser()
			if err != nil {
				return err
			}
			if refresh || user.ID == "" {
				if user, err = cliCtx.Session.RefreshProfile(cmd.Context()); err != nil {
					return err
				}
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Name:\t%s\n", user.Name)
			fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
			if user.College != "" {
				fmt.Fprintf(tw, "College:\t%s\n", strings.TrimSpace(user.College+" "+user.Department+" "+user.Year))
			}
			fmt.Fprintf(tw, "Wishlist:\t%d items\n", len(user.Wishlist))
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch the profile from the server")
	return cmd
}

// readSecret reads without echo from a terminal, or a plain line from
// piped input.
func readSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func NewProfileCmd() *cobra.Command {
	var update domain.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		Example: `  campusrent profile --department Physics --year 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			if update == (domain.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one flag")
			}
			user, err := cliCtx.Session.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s.\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&update.Name, "name", "", "full name")
	cmd.Flags().StringVar(&update.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&update.College, "college", "", "college")
	cmd.Flags().StringVar(&update.Department, "department", "", "department")
	cmd.Flags().StringVar(&update.Year, "year", "", "year of study")
	return cmd
}
