package managers

import (
	"github.com/google/uuid"

	"foodconnect/internal/schemas"
)

// Operation names an entry point guarded by the access policy.
type Operation int

const (
	OpCreate Operation = iota
	OpRemove
	OpListOwnedBy
	OpClaim
	OpVerifyPickup
	OpListAvailable
	OpListClaimedBy
	OpReadStats
)

var operationNames = map[Operation]string{
	OpCreate:        "create",
	OpRemove:        "remove",
	OpListOwnedBy:   "listOwnedBy",
	OpClaim:         "claim",
	OpVerifyPickup:  "verifyPickup",
	OpListAvailable: "listAvailable",
	OpListClaimedBy: "listClaimedBy",
	OpReadStats:     "readStats",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return "unknown"
}

// accessPolicy maps every operation to the single role allowed to invoke it.
var accessPolicy = map[Operation]schemas.Role{
	OpCreate:        schemas.RoleDonor,
	OpRemove:        schemas.RoleDonor,
	OpListOwnedBy:   schemas.RoleDonor,
	OpClaim:         schemas.RoleVolunteer,
	OpVerifyPickup:  schemas.RoleVolunteer,
	OpListAvailable: schemas.RoleVolunteer,
	OpListClaimedBy: schemas.RoleVolunteer,
	OpReadStats:     schemas.RoleAdmin,
}

// Principal is the authenticated caller resolved from a session token.
type Principal struct {
	UserID uuid.UUID
	Role   schemas.Role
	Name   string
}

// Authorize permits op for principal or returns ErrUnauthenticated / ErrForbidden.
// Operations missing from the policy are denied.
func Authorize(principal *Principal, op Operation) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	required, ok := accessPolicy[op]
	if !ok || principal.Role != required {
		return ErrForbidden
	}
	return nil
}
