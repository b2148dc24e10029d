package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kolide/kit/logutil"
	"github.com/pkg/errors"
)

func main() {
	logger := logutil.NewCLILogger(false)

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var run func([]string, io.Writer) error
	switch os.Args[1] {
	case "render":
		run = runRender
	case "identity":
		run = runIdentity
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		os.Exit(2)
	}

	if err := run(os.Args[2:], os.Stdout); err != nil {
		logutil.Fatal(logger, "err", errors.Wrapf(err, "running subcommand %s", os.Args[1]))
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: apnskit <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  render     render an APNs payload from flags or a template")
	fmt.Fprintln(w, "  identity   convert a PKCS#12 push certificate to PEM")
}
