package doc2man

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoInput     = errors.New("no input files")
	ErrUnnamedFile = errors.New("input file has no name")
)
