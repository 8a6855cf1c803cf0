package access

import (
	"github.com/meridianhq/authzkit/pkg/permission"
)

// Decision is the final outcome of an access check.
type Decision string

const (
	DecisionAllow           Decision = "ALLOW"
	DecisionDeny            Decision = "DENY"
	DecisionRequireMFA      Decision = "REQUIRE_MFA"
	DecisionRequireApproval Decision = "REQUIRE_APPROVAL"
)

// Machine-readable reason codes carried on a Result. The HTTP layer maps
// these onto status codes and user-facing messages.
const (
	ReasonGranted              = "granted"
	ReasonGrantedByPolicy      = "granted by policy"
	ReasonPermissionNotGranted = "permission not granted"
	ReasonDeniedByPolicy       = "denied by policy"
	ReasonMFARequired          = "mfa verification required"
	ReasonInternalError        = "internal authorization error"
)

// Request describes one access check. It is ephemeral: built per request
// and never stored.
type Request struct {
	// Actor.
	UserID         string
	OrganizationID string

	// Target.
	Resource     permission.Resource
	Action       permission.Action
	ResourceID   string
	ResourceData map[string]any

	// Environment.
	IPAddress   string
	UserAgent   string
	MFAVerified bool
	SessionID   string

	// AdditionalContext is merged into the policy evaluation context.
	AdditionalContext map[string]any
}

// Result is the outcome of one access check.
type Result struct {
	Decision          Decision
	Allowed           bool
	Reason            string
	MatchedPermission string
	DecidingPolicy    string

	// AuditData is handed to the external audit collaborator; the engine
	// itself never persists it.
	AuditData map[string]any
}
