package authz

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fatih/structs"
	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/vetcare/vetportal/session"
	"go.uber.org/zap"
)

const (
	PathLogin             = "/login"
	PathDoctorLogin       = "/doctor/login"
	PathDoctorDashboard   = "/doctor-dashboard"
	PathCustomerDashboard = "/customer-dashboard"

	decisionQuery = "data.vetportal.authz.decision"
)

//go:embed policy.rego
var guardPolicy string

type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides whether the current session may activate a command requiring one of the given roles
type Guard interface {
	CanActivate(ctx context.Context, required mapset.Set[session.Role]) (Decision, error)
}

type policyInput struct {
	Role     string   `structs:"role"`
	Required []string `structs:"required"`
}

type embeddedOpaGuard struct {
	store  session.Store
	logger *zap.SugaredLogger
	query  rego.PreparedEvalQuery
}

var _ Guard = &embeddedOpaGuard{}

func NewGuard(store session.Store, logger *zap.SugaredLogger) (Guard, error) {
	compiler, err := ast.CompileModules(map[string]string{
		"policy.rego": guardPolicy,
	})
	if err != nil {
		return nil, err
	}

	query, err := rego.New(
		rego.Query(decisionQuery),
		rego.Compiler(compiler),
	).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("unable to prepare guard policy: %w", err)
	}

	return &embeddedOpaGuard{
		store:  store,
		logger: logger,
		query:  query,
	}, nil
}

func (e *embeddedOpaGuard) CanActivate(ctx context.Context, required mapset.Set[session.Role]) (Decision, error) {
	role, err := session.CurrentRole(e.store)
	if err != nil {
		return Decision{}, fmt.Errorf("unable to read role: %w", err)
	}

	input := structs.Map(policyInput{
		Role:     string(role),
		Required: requiredRoles(required),
	})

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("unable to evaluate guard policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Decision{}, fmt.Errorf("evaluating guard policy returned no results")
	}

	result, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, fmt.Errorf("unexpected guard policy result: %v", results[0].Expressions[0].Value)
	}

	decision := Decision{}
	decision.Allow, _ = result["allow"].(bool)
	decision.RedirectTo, _ = result["redirect"].(string)

	e.logger.Debugw("guard policy eval", zap.Any("input", input), zap.Bool("allow", decision.Allow), zap.String("redirect", decision.RedirectTo))

	return decision, nil
}

func requiredRoles(required mapset.Set[session.Role]) []string {
	roles := make([]string, 0)
	if required == nil {
		return roles
	}
	for role := range required.Iter() {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	return roles
}
