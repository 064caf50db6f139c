// Package policy holds the single authorization decision function. Every
// endpoint that acts on an identity routes through Decide; handlers never
// re-implement role or ownership checks inline.
package policy

import "github.com/barracks/account-service/internal/core/domain"

// Action names an operation an identity can request against a target identity.
type Action string

const (
	ActionReadOwn     Action = "read-own"
	ActionUpdateOwn   Action = "update-own"
	ActionDeleteOwn   Action = "delete-own"
	ActionUpdateRole  Action = "update-role"
	ActionListAll     Action = "list-all"
	ActionImpersonate Action = "impersonate"
)

// Decision is the outcome of a policy evaluation.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Decide evaluates whether acting may perform action against target.
// Rules are checked in order, first match wins:
//
//  1. update-role requires an elevated role.
//  2. list-all and impersonate require an elevated role.
//  3. "own" actions are allowed for the owner itself.
//  4. Elevated roles may perform "own" actions on any target.
//  5. Everything else is denied.
//
// The function is pure: no I/O, no clock, no logging. Callers translate a
// Deny into a uniform 403 that does not reveal whether target exists.
func Decide(acting *domain.User, target *domain.User, action Action) Decision {
	if acting == nil {
		return Deny
	}

	switch action {
	case ActionUpdateRole, ActionListAll, ActionImpersonate:
		if acting.Role.Elevated() {
			return Allow
		}
		return Deny
	case ActionReadOwn, ActionUpdateOwn, ActionDeleteOwn:
		if target != nil && acting.ID == target.ID {
			return Allow
		}
		if acting.Role.Elevated() {
			return Allow
		}
		return Deny
	}

	return Deny
}
