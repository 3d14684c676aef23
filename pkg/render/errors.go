package render

import fuseerrors "github.com/vango-dev/fuse/internal/errors"

// ErrNilContainer is returned by Render when the container is nil.
var ErrNilContainer = fuseerrors.New("E001")
