package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"wallgrab/pkg/auth"
)

var credentialName string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Slack bot token",
	Long: `Manage the Slack bot token used for notifications.

Tokens are stored using, in order:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
WALLGRAB_SLACK_TOKEN or LOGGER_SLACK_BOT override any stored token.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Slack bot token",
	Long: `Prompt for a Slack bot token and store it securely.
The token is read without echo when stdin is a terminal.`,
	Example: `  # Interactive
  wallgrab auth login

  # From a secret manager
  vault read -field=token secret/slack | wallgrab auth login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Slack bot token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		if err := manager.Delete(credentialName); err != nil {
			return err
		}
		out().Success(fmt.Sprintf("Removed credential %q", nameOrDefault(credentialName)))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which Slack bot token will be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := auth.NewManager()
		if err != nil {
			return fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		return printStatus(cmd.OutOrStdout(), manager, credentialName)
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	authCmd.PersistentFlags().StringVar(&credentialName, "name", auth.DefaultName, "credential name")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		auth.WriteTokenGuide(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), "Bot token: ")
	}

	token, err := readToken(os.Stdin, interactive)
	if interactive {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	cred := &auth.Credential{Name: credentialName, Token: token}
	if err := manager.Store(cred); err != nil {
		return err
	}

	out().Success(fmt.Sprintf("Stored credential %q (%s)", cred.Name, auth.Mask(cred.Token)))
	return nil
}

// readToken reads one line, without echo when in is a terminal
func readToken(in *os.File, interactive bool) (string, error) {
	if interactive {
		b, err := term.ReadPassword(int(in.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printStatus(w io.Writer, manager *auth.Manager, name string) error {
	name = nameOrDefault(name)

	if env := auth.NewEnvironmentStore(); env.Exists(name) {
		cred, _ := env.Retrieve(name)
		fmt.Fprintf(w, "Token from environment: %s\n", auth.Mask(cred.Token))
		return nil
	}

	cred, err := manager.Retrieve(name)
	if err != nil {
		fmt.Fprintf(w, "No token stored under %q. Run 'wallgrab auth login'.\n", name)
		return nil
	}

	masked := auth.Sanitize(cred)
	fmt.Fprintf(w, "Token %q: %s (updated %s)\n", masked.Name, masked.Token, masked.LastModified.Format("2006-01-02 15:04"))
	return nil
}

func nameOrDefault(name string) string {
	if name == "" {
		return auth.DefaultName
	}
	return name
}
