package cli

import (
	controller "github.com/eventgrid/eventgrid/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// joinOptions combines HTTP server option slices into one
func joinOptions(opts ...[]controller.Option) []controller.Option {
	var result []controller.Option
	for _, o := range opts {
		result = append(result, o...)
	}
	return result
}
