package inventory

import "errors"

// ErrTypeNotFound is returned when a referenced item type id does not exist.
var ErrTypeNotFound = errors.New("item type not found")

// ErrInstanceNotFound is returned when a referenced item instance id does not exist.
var ErrInstanceNotFound = errors.New("item instance not found")

// ErrInvalidArgument is returned for arguments that are out of domain,
// such as negative quantities or amounts.
var ErrInvalidArgument = errors.New("invalid argument")
