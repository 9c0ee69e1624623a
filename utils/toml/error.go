package toml

import (
	"errors"
)

var (
	// ErrorFileNotExists error for a missing TOML file
	ErrorFileNotExists = errors.New("file not exists")
	// ErrorEmptySection error for a section without entries where some are required
	ErrorEmptySection = errors.New("section is empty")
)
