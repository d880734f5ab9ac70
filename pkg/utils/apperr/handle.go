package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs an error that ends a request. goerr values are logged with their
// attached values so the cause can be traced without a debugger.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if ge := goerr.Unwrap(err); ge != nil {
		logger.Error("application error", "error", err, "values", ge.Values())
		return
	}
	logger.Error("application error", "error", err)
}
