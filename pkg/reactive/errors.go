package reactive

import (
	fuseerrors "github.com/vango-dev/fuse/internal/errors"
)

// ErrCycle is reported when nested propagation exceeds the runtime's
// maximum depth. Match with errors.Is.
var ErrCycle = fuseerrors.New("E002")

// ErrEffectPanic is reported when an effect body panics. The reported error
// wraps the recovered value.
var ErrEffectPanic = fuseerrors.New("E003")
