package services

// Identity is the caller of a service operation. The zero value is anonymous.
type Identity struct {
	UserID uint
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

// UserIdentity returns the identity of an authenticated user.
func UserIdentity(userID uint) Identity {
	return Identity{UserID: userID}
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}
