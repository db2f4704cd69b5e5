package resolve

import (
	"errors"
)

// ErrResolution indicates no identity candidate produced a successful
// header response. errors.As with a *identity.RefusedError recovers
// the last status code and reason phrase.
var ErrResolution = errors.New("metadata resolution failed")
