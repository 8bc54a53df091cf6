package command

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"
	"github.com/vetcare/vetportal/pointer"
	"github.com/vetcare/vetportal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long:  "The whoami command shows the user of the persisted session and the expiry of its access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(whoami)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func whoami(store session.Store) error {
	s, err := session.Load(store)
	if err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		fmt.Println("Not signed in")
		return nil
	}

	fmt.Printf("Username: %s\n", s.Username)
	fmt.Printf("Email:    %s\n", s.Email)
	fmt.Printf("Role:     %s\n", s.Role)

	if expiresAt := accessTokenExpiry(s.AccessToken); expiresAt != nil {
		status := "valid"
		if expiresAt.Before(time.Now()) {
			status = "expired, it will be refreshed on the next request"
		}
		fmt.Printf("Access token expires at %s (%s)\n", expiresAt.Local().Format(time.RFC1123), status)
	}
	return nil
}

// accessTokenExpiry returns the expiry of the token. The signature can't be verified
// by the portal, the token is only inspected.
func accessTokenExpiry(accessToken string) *time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	return pointer.FromAny(claims.ExpiresAt.Time)
}
