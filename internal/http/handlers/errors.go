package handlers

import (
	"errors"
	"fmt"
)

var (
	errNoOperator    = errors.New("no operator session in context")
	errUnknownChart  = errors.New("unknown chart")
	errNoReportStore = errors.New("report storage is not configured")
)

func errMissingField(name string) error {
	return fmt.Errorf("%s is required", name)
}
