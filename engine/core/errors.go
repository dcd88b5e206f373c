package core

import (
	"errors"
)

var (
	ErrNilCanvas        = errors.New("canvas is nil")
	ErrNilEventTarget   = errors.New("event target is nil")
	ErrContextCreation  = errors.New("unable to create rendering context")
	ErrUnsupportedEvent = errors.New("unsupported native event")
)
