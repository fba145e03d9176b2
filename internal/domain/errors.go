package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// VerificationError is a permanent rejection of an inbound activity.
// Deliveries failing verification are never retried.
type VerificationError struct {
	Code    string
	Message string
}

func (e VerificationError) Error() string {
	return fmt.Sprintf("verification failed (%s): %s", e.Code, e.Message)
}

// Is matches any VerificationError, or one with the same code.
func (e VerificationError) Is(target error) bool {
	t, ok := target.(VerificationError)
	if !ok {
		tp, okp := target.(*VerificationError)
		if !okp {
			return false
		}
		t = *tp
	}
	return t.Code == "" || t.Code == e.Code
}

var (
	ErrAudienceMissing   = VerificationError{Code: "audience_missing", Message: "activity is not publicly addressed"}
	ErrActorUnresolvable = VerificationError{Code: "actor_unresolvable", Message: "acting actor could not be resolved"}
	ErrNotMember         = VerificationError{Code: "not_a_member", Message: "actor is not a member of the community"}
	ErrNotModerator      = VerificationError{Code: "not_a_moderator", Message: "actor is not a moderator of the community"}
	ErrDomainMismatch    = VerificationError{Code: "domain_mismatch", Message: "actor and object belong to different domains"}
	ErrSelfBan           = VerificationError{Code: "self_ban_on_home_instance", Message: "site bans from a remote instance cannot affect a user's home instance"}
	ErrCommunityMismatch = VerificationError{Code: "community_mismatch", Message: "activity audience does not match the target community"}
)

// RecursionExceededError signals that resolving nested references
// exhausted the depth budget, which bounds fetch chains caused by
// malicious or misconfigured peers.
type RecursionExceededError struct {
	Identity string
}

func (e RecursionExceededError) Error() string {
	return fmt.Sprintf("resolution depth budget exhausted at %s", e.Identity)
}

func (e RecursionExceededError) Is(target error) bool {
	_, ok := target.(RecursionExceededError)
	if ok {
		return true
	}
	_, ok = target.(*RecursionExceededError)
	return ok
}

// ErrRecursionExceeded is the sentinel for depth budget exhaustion.
var ErrRecursionExceeded = RecursionExceededError{}
