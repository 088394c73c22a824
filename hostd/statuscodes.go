package hostd

import (
	"net/http"

	iie "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// DefaultRequiredErrorStatusCodes are the codes the error status expression must cover. The bridge forces a 500
// when an entry point fails and the host answers 503 while it is not serving.
var DefaultRequiredErrorStatusCodes = []int{
	http.StatusInternalServerError,
	http.StatusServiceUnavailable,
}

// ValidateErrorStatusCodes checks that expr parses as an integer interval expression (e.g. "500-599",
// "500,502-504" or "500-") and matches every required code.
func ValidateErrorStatusCodes(expr string, required ...int) error {
	matches, err := parseErrorStatusCodes(expr)
	if err != nil {
		return err
	}

	missing := lo.Reject(required, func(code int, _ int) bool { return matches(code) })
	if len(missing) > 0 {
		return errors.Newf("error status codes %q do not cover all required codes, missing: %v "+
			"(recommended value: %q)", expr, missing, "500-599")
	}

	return nil
}

// parseErrorStatusCodes returns a matcher for the status codes the host logs as failures.
func parseErrorStatusCodes(expr string) (func(code int) bool, error) {
	e, err := iie.ParseExpression(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse error status codes %q", expr)
	}

	return e.Matches, nil
}
