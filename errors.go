package locus

import "github.com/pkg/errors"

// ErrInvalidArgument is the sentinel every constructor and query validation
// failure in this module wraps, so callers can test with errors.Is instead
// of matching error strings.
var ErrInvalidArgument = errors.New("locus: invalid argument")

func invalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
