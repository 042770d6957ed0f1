package core

import (
	"errors"
)

var (
	ErrNoDocument     = errors.New("no document is open, nothing to export")
	ErrNothingVisible = errors.New("no visible objects in the document, nothing to export")
)
