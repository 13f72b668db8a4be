package tabular

import (
	"fmt"

	"github.com/iota-uz/agentlists/pkg/serrors"
)

var (
	ErrUnsupportedFormat = serrors.NewError(
		"LISTS_UNSUPPORTED_FORMAT",
		"unsupported file format: only CSV, XLSX and XLS files are allowed",
		"Lists.Errors.UnsupportedFormat",
	)
	ErrMalformedInput = serrors.NewError(
		"LISTS_MALFORMED_INPUT",
		"file could not be read",
		"Lists.Errors.MalformedInput",
	)
)

func malformed(msg string, args ...any) error {
	return fmt.Errorf("%w: "+msg, append([]any{ErrMalformedInput}, args...)...)
}
