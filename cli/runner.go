package cli

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

var output io.Writer = os.Stdout

// Run parses args and executes the selected command
func Run(args []string) error {
	options := &Options{}
	_, err := flags.ParseArgs(options, args)
	return err
}
