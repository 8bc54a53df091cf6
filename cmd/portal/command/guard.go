package command

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"github.com/vetcare/vetportal/authz"
	"github.com/vetcare/vetportal/session"
)

var guardParams = struct {
	Roles []string
}{}

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Evaluate the role guard",
	Long:  "The guard command shows whether the current session may run a command requiring one of the given roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(evaluateGuard)
	},
}

func init() {
	guardCmd.Flags().StringSliceVarP(&guardParams.Roles, "roles", "r", []string{string(session.RoleDoctor), string(session.RoleCustomer)}, "Required roles")
	rootCmd.AddCommand(guardCmd)
}

func evaluateGuard(guard authz.Guard) error {
	required := mapset.NewSet[session.Role]()
	for _, value := range guardParams.Roles {
		role := session.ParseRole(value)
		if role == "" {
			return fmt.Errorf("unknown role %q", value)
		}
		required.Add(role)
	}

	decision, err := guard.CanActivate(context.TODO(), required)
	if err != nil {
		return err
	}

	if decision.Allow {
		fmt.Printf("Allowed for roles %s\n", strings.Join(guardParams.Roles, ", "))
	} else {
		fmt.Printf("Denied, redirect to %s\n", decision.RedirectTo)
	}
	return nil
}
