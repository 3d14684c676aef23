package router

import (
	fuseerrors "github.com/vango-dev/fuse/internal/errors"
)

// ErrInvalidPath is returned for navigation targets that are not
// absolute, canonicalizable paths.
var ErrInvalidPath = fuseerrors.New("E080")

// ErrNavigationBlocked is returned when a guard or middleware stops a
// navigation.
var ErrNavigationBlocked = fuseerrors.New("E081")

func invalidPath(input, reason string) error {
	return fuseerrors.New("E080").WithDetail(reason + ": " + input)
}

func blocked(detail string) error {
	return fuseerrors.New("E081").WithDetail(detail)
}
