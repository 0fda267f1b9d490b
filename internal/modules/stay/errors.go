package stay

import "errors"

var (
	ErrNotFound         = errors.New("stay not found")
	ErrUnauthorized     = errors.New("not the owner of this stay")
	ErrOwnerNotVerified = errors.New("owner not verified by admin yet")
)
