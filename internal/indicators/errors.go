package indicators

import "errors"

// ErrInsufficientData reports that a window is too short for an
// indicator. The snapshot assembler maps it to an absent field; it is
// never surfaced to callers of the engine.
var ErrInsufficientData = errors.New("insufficient data")
