package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vetcare/vetportal/client"
	"golang.org/x/term"
)

var loginParams = struct {
	Username string
	Password string
}{}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long:  "The login command signs in as a customer or a doctor and persists the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(login)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  "The logout command removes the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(logout)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginParams.Username, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginParams.Password, "password", "p", "", "Password, read from stdin when not set")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func login(c *client.Client) error {
	credentials := client.Credentials{
		Username: loginParams.Username,
		Password: loginParams.Password,
	}
	if credentials.Password == "" {
		password, err := readPassword(os.Stdin, os.Stderr)
		if err != nil {
			return fmt.Errorf("unable to read password: %w", err)
		}
		credentials.Password = password
	}

	s, err := c.Login(context.TODO(), credentials)
	if err != nil {
		return err
	}

	fmt.Printf("Signed in as %s (%s)\n", s.Username, s.Role)
	return nil
}

// readPassword prompts without echo on terminals and reads a single line from piped input otherwise
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		password, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(password, "\r\n"), nil
	}

	fmt.Fprint(prompt, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func logout(c *client.Client) error {
	if err := c.Logout(); err != nil {
		return err
	}

	fmt.Println("Signed out")
	return nil
}
