package common

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const paramJSON = "json"

var FlagJSON = &cli.BoolFlag{
	Name:  paramJSON,
	Usage: "Print the result as json",
}

// Print writes the value as indented json when the --json flag is set, the
// text otherwise.
func Print(ctx *cli.Context, value any, text string) error {
	if !ctx.Bool(paramJSON) {
		if _, err := fmt.Fprintln(ctx.App.Writer, text); err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	encoder := json.NewEncoder(ctx.App.Writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
