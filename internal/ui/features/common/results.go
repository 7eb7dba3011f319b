package common

import (
	"errors"
	"strconv"

	"github.com/leapstack-labs/leapquery/internal/validation"
	"github.com/leapstack-labs/leapquery/pkg/core"
)

// ResultView is the outcome of one Run.
type ResultView struct {
	SQL    string
	Result *core.Result
	Err    error
}

// ErrorMessage is the banner text for err. Execution failures carry the
// driver's message; invalid input is reported as-is.
func ErrorMessage(err error) string {
	var verr *validation.RequestError
	if errors.As(err, &verr) {
		return "Invalid input: " + verr.Error()
	}
	return "Error executing query: " + err.Error()
}

// SuccessMessage is the banner text for a successful run.
func SuccessMessage(res *core.Result) string {
	msg := "Query returned " + strconv.Itoa(res.RowCount()) + " rows."
	if res != nil && res.Truncated {
		msg += " Output was truncated."
	}
	return msg
}
