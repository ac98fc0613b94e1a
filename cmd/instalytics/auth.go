package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"instalytics/pkg/auth"
	"instalytics/pkg/session"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Instagram credentials",
	Long: `Manage stored Instagram credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store Instagram credentials securely",
	Long: `Store Instagram credentials in the system keychain or an encrypted file.

You will be prompted for:
  - Instagram username (if not provided)
  - Session ID (from the sessionid cookie)
  - CSRF Token (from the csrftoken cookie)
  - User Agent (optional, press Enter for default)

To get these values:
1. Log into Instagram in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies
4. Find and copy the sessionid and csrftoken values`,
	Example: `  # Interactive login
  instalytics auth login

  # Login with username
  instalytics auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:     "logout <username>",
	Short:   "Remove stored credentials",
	Example: `  instalytics auth logout myusername`,
	Args:    cobra.ExactArgs(1),
	Run:     runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Instagram accounts with sanitized credential information.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("Failed to initialize credential manager", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Print("Instagram username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fatal("Failed to read username", err)
		}
		username = strings.TrimSpace(input)
	}

	if username == "" {
		fmt.Fprintln(os.Stderr, "Username is required")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your cookie values (they will be hidden as you type):")

	fmt.Print("sessionid cookie value: ")
	sessionID, err := readPassword()
	if err != nil {
		fatal("Failed to read session ID", err)
	}
	if len(sessionID) < 20 {
		fmt.Fprintln(os.Stderr, "That doesn't look like a valid sessionid (it should be a long string)")
		os.Exit(1)
	}

	fmt.Print("csrftoken cookie value: ")
	csrfToken, err := readPassword()
	if err != nil {
		fatal("Failed to read CSRF token", err)
	}
	if len(csrfToken) < 20 || len(csrfToken) > 50 {
		fmt.Fprintln(os.Stderr, "That doesn't look like a valid csrftoken (it should be around 32 characters)")
		os.Exit(1)
	}

	fmt.Print("User Agent (press Enter to use default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		fatal("Failed to store credentials", err)
	}

	fmt.Printf("\nCredentials stored for account: %s\n", username)

	fmt.Print("Add this account to the session rotation pool? (Y/n): ")
	answer, _ := reader.ReadString('\n')
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "n") {
		if err := addToSessionPool(account); err != nil {
			fmt.Fprintf(os.Stderr, "Could not update session pool: %v\n", err)
		} else {
			fmt.Println("Account added to the session rotation pool")
		}
	}

	fmt.Println("\nAnalyze any public profile with:")
	fmt.Println("  instalytics scrape <instagram_username>")
}

// addToSessionPool registers the account's cookies for scrape-time rotation
func addToSessionPool(account *auth.Account) error {
	pool, err := openSessionPool()
	if err != nil {
		return err
	}
	return pool.Add(session.FromAccount(account))
}

// removeFromSessionPool drops the account from the rotation pool, if present
func removeFromSessionPool(username string) {
	dir, err := auth.ConfigDir()
	if err != nil {
		return
	}
	if _, err := os.Stat(filepath.Join(dir, "sessions.json")); err != nil {
		return
	}

	pool, err := openSessionPool()
	if err != nil {
		return
	}
	if err := pool.Remove(username); err == nil {
		fmt.Println("Account removed from the session rotation pool")
	}
}

func openSessionPool() (*session.Pool, error) {
	dir, err := auth.ConfigDir()
	if err != nil {
		return nil, err
	}
	return session.NewPool(filepath.Join(dir, "sessions.json"), os.Getenv("INSTALYTICS_PASSPHRASE"), nil)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("Failed to initialize credential manager", err)
	}

	username := args[0]
	if err := manager.Delete(username); err != nil {
		fatal("Failed to remove account", err)
	}
	fmt.Println("Account removed:", username)

	removeFromSessionPool(username)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fatal("Failed to initialize credential manager", err)
	}

	accounts, err := manager.List()
	if err != nil {
		fatal("Failed to list accounts", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'instalytics auth login' to add one.")
		return
	}

	fmt.Println("Stored accounts:")
	fmt.Println()
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Username: %s\n", i+1, sanitized.Username)
		fmt.Printf("   Session ID: %s\n", sanitized.SessionID)
		fmt.Printf("   CSRF Token: %s\n", sanitized.CSRFToken)
		if sanitized.UserAgent != "" {
			fmt.Printf("   User Agent: %s\n", sanitized.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a value from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
