package domain

import "errors"

var (
	ErrMissingOrder = errors.New("missing_order")
	ErrMissingPOS   = errors.New("missing_pos")
)
