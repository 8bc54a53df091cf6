package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vetcare/vetportal/authz"
	errs "github.com/vetcare/vetportal/errors"
	"github.com/vetcare/vetportal/session"
	"go.uber.org/zap"
)

// ErrRedirected is returned when an action was not run because the guard redirected
var ErrRedirected = errors.New("redirected")

// Navigator moves the user to another location. Hard redirects discard all
// in-memory state of the current flow.
type Navigator interface {
	Redirect(path string, hard bool)
}

type Controller struct {
	guard     authz.Guard
	navigator Navigator
	logger    *zap.SugaredLogger
}

func NewController(guard authz.Guard, navigator Navigator, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		guard:     guard,
		navigator: navigator,
		logger:    logger,
	}
}

// Run evaluates the guard for the required roles and runs action when it is allowed.
// An action failing with an expired session results in a hard redirect to the login.
func (c *Controller) Run(ctx context.Context, required mapset.Set[session.Role], action func(context.Context) error) error {
	decision, err := c.guard.CanActivate(ctx, required)
	if err != nil {
		return err
	}
	if !decision.Allow {
		c.logger.Debugw("guard denied activation", "redirect", decision.RedirectTo)
		c.navigator.Redirect(decision.RedirectTo, false)
		return fmt.Errorf("%w to %s", ErrRedirected, decision.RedirectTo)
	}

	err = action(ctx)
	if errors.Is(err, errs.SessionExpired) {
		c.logger.Infow("session expired, redirecting to login")
		c.navigator.Redirect(authz.PathLogin, true)
	}
	return err
}

type terminalNavigator struct {
	out io.Writer
}

// NewTerminalNavigator returns a navigator printing the redirect target
// together with the command to run next
func NewTerminalNavigator(out io.Writer) Navigator {
	return &terminalNavigator{out: out}
}

func (t *terminalNavigator) Redirect(path string, hard bool) {
	if hard {
		fmt.Fprintf(t.out, "Your session has expired.\n")
	}
	fmt.Fprintf(t.out, "Redirecting to %s\n", path)

	switch path {
	case authz.PathLogin:
		fmt.Fprintf(t.out, "Run `portal login` to sign in.\n")
	case authz.PathDoctorLogin:
		fmt.Fprintf(t.out, "Run `portal login` with your doctor account to sign in.\n")
	case authz.PathDoctorDashboard, authz.PathCustomerDashboard:
		fmt.Fprintf(t.out, "This command isn't available for your account.\n")
	}
}
