package resources

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vetcare/vetportal/session"
)

type Operation string

const (
	OperationList   Operation = "list"
	OperationGet    Operation = "get"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "patch"
	OperationDelete Operation = "delete"
)

var Operations = []Operation{OperationList, OperationGet, OperationCreate, OperationUpdate, OperationDelete}

// customerAccess lists the operations available to customers in addition to doctors
var customerAccess = map[Kind]mapset.Set[Operation]{
	Patients:       mapset.NewSet(OperationList, OperationGet),
	Visits:         mapset.NewSet(OperationList, OperationGet),
	Appointments:   mapset.NewSet(OperationList, OperationGet, OperationCreate),
	Receipts:       mapset.NewSet(OperationList, OperationGet),
	Communications: mapset.NewSet(OperationList, OperationGet, OperationCreate),
}

// RequiredRoles returns the roles allowed to perform op on kind. Doctors are allowed everything.
func RequiredRoles(kind Kind, op Operation) mapset.Set[session.Role] {
	roles := mapset.NewSet(session.RoleDoctor)
	if ops, ok := customerAccess[kind]; ok && ops.Contains(op) {
		roles.Add(session.RoleCustomer)
	}
	return roles
}

// ReportRoles are the roles allowed to generate patient reports
func ReportRoles() mapset.Set[session.Role] {
	return mapset.NewSet(session.RoleDoctor)
}
