package models

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("io failure")
	ErrBadRequest = errors.New("bad request")
)
