package services

// Action is an operation kind checked by Authorize.
type Action int

const (
	// ActionRead is allowed for everyone, including anonymous callers.
	ActionRead Action = iota
	// ActionCreate requires an authenticated caller.
	ActionCreate
	// ActionOwnerMutate requires the caller to own the resource.
	ActionOwnerMutate
	// ActionNonOwnerCreate requires an authenticated caller who does not own
	// the target resource.
	ActionNonOwnerCreate
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionOwnerMutate:
		return "owner_mutate"
	case ActionNonOwnerCreate:
		return "non_owner_create"
	default:
		return "unknown"
	}
}

// Authorize decides whether id may perform action on a resource owned by
// ownerID. ownerID is ignored for ActionRead and ActionCreate.
func Authorize(id Identity, action Action, ownerID uint) error {
	if action == ActionRead {
		return nil
	}
	if !id.IsAuthenticated() {
		return ErrUnauthenticated
	}

	switch action {
	case ActionCreate:
		return nil
	case ActionOwnerMutate:
		if id.UserID != ownerID {
			return ErrForbidden
		}
		return nil
	case ActionNonOwnerCreate:
		if id.UserID == ownerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
