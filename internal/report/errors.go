package report

import "errors"

var (
	ErrInvalidPeriod = errors.New("statement period is invalid")
	ErrInvalidRange  = errors.New("tracker range is invalid")
)
