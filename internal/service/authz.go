package service

import "github.com/d60-Lab/inkwell/internal/apperr"

// CanMutate reports whether actorID may change or delete something owned by ownerID.
func CanMutate(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}

func requireOwner(actorID, ownerID, what string) error {
	if actorID == "" {
		return apperr.ErrUnauthenticated
	}
	if !CanMutate(actorID, ownerID) {
		return apperr.PermissionDenied("only the author may modify this %s", what)
	}
	return nil
}

func requireActor(actorID string) error {
	if actorID == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}
