package dom

import (
	"fmt"

	fuseerrors "github.com/vango-dev/fuse/internal/errors"
)

// Sentinel errors. Returned errors carry more detail; compare with
// errors.Is.
var (
	ErrReadOnlyProperty = fuseerrors.New("E040")
	ErrHierarchy        = fuseerrors.New("E041")
	ErrNotFound         = fuseerrors.New("E042")
)

func hierarchyError(format string, args ...any) error {
	return fuseerrors.New(ErrHierarchy.Code).WithDetail(fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fuseerrors.New(ErrNotFound.Code).WithDetail(fmt.Sprintf(format, args...))
}
