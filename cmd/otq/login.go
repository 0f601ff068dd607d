package main

import (
	"bufio"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and store the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if len(args) == 1 {
			email = args[0]
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		if email == "" {
			fmt.Print("email: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		if password == "" {
			if ui.IsInteractive() {
				fmt.Print("password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = string(raw)
			} else {
				line, err := reader.ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
		}

		resp, err := client.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		// The fresh session supersedes the old one entirely: the expiry
		// prompt and any queue tokens issued under the old auth are torn
		// down before the new token is stored.
		monitor.Resolve()
		store.SetAuth(resp.Token)

		fmt.Printf("logged in as %s\n", ui.RenderAccent(email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the session token and all held queue tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store.ClearAuth()
		store.ClearAllQueue()
		fmt.Println("logged out")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
}
