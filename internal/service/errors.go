package service

import "errors"

var (
	ErrOrderNotFound    = errors.New("work order not found")
	ErrMaterialNotFound = errors.New("material not found")
)
