package resume

import (
	"regexp"

	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Sheet prefix is either a quoted name ('' escapes a quote) or a bare name.
// A cell reference is a column, a row, or both.
var a1Range = regexp.MustCompile(
	`^(?:(?:'(?:[^']|'')+'|[^'!:]+)!)?` +
		`(?:[A-Za-z]{1,3}[1-9][0-9]*|[A-Za-z]{1,3}|[1-9][0-9]*)` +
		`(?::(?:[A-Za-z]{1,3}[1-9][0-9]*|[A-Za-z]{1,3}|[1-9][0-9]*))?$`)

// ValidateRange reports whether rng is an A1-notation range such as
// "A1:U100", "Sheet1!A1:C" or "'My sheet'!B:B".
func ValidateRange(rng string) error {
	if !a1Range.MatchString(rng) {
		return goerr.New("invalid A1 range", goerr.V("range", rng), goerr.T(model.ErrTagFetch))
	}
	return nil
}
