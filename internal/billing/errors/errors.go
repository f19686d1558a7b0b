package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrDuplicate    = fmt.Errorf("duplicate record")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrStorage      = fmt.Errorf("storage failure")
)
