package materials

import "errors"

// ErrInvalidTransition is returned when a terminal material is asked to move again.
var ErrInvalidTransition = errors.New("invalid material status transition")

// ErrUnsupportedFile marks an upload whose extension is not accepted.
var ErrUnsupportedFile = errors.New("unsupported file type")
