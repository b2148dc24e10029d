package main

import (
	"flag"
	"io"
	"os"

	"github.com/go-kit/kit/log/level"
	"github.com/kolide/apnskit/pkg/identity"
	"github.com/kolide/kit/logutil"
	"github.com/peterbourgon/ff/v3"
	"github.com/pkg/errors"
)

func runIdentity(args []string, out io.Writer) error {
	flagset := flag.NewFlagSet("apnskit identity", flag.ContinueOnError)

	var (
		flP12      = flagset.String("p12", "", "PKCS#12 container to read")
		flPassword = flagset.String("password", "", "container password. Prefer APNSKIT_PASSWORD over the command line")
		flCertOut  = flagset.String("cert-out", "", "write the certificate chain here instead of stdout")
		flKeyOut   = flagset.String("key-out", "", "write the private key here instead of stdout")
		flDebug    = flagset.Bool("debug", false, "enable debug logging")
		_          = flagset.String("config", "", "config file (optional)")
	)

	if err := ff.Parse(flagset, args,
		ff.WithEnvVarPrefix("APNSKIT"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return errors.Wrap(err, "parsing flags")
	}

	if *flP12 == "" {
		return errors.New("-p12 is required")
	}

	logger := logutil.NewCLILogger(*flDebug)

	certPEM, keyPEM, err := identity.New(identity.WithLogger(logger)).ExtractFile(*flP12, *flPassword)
	if err != nil {
		return err
	}

	if err := writeOutput(out, *flCertOut, certPEM, 0644); err != nil {
		return errors.Wrap(err, "writing certificate chain")
	}
	if err := writeOutput(out, *flKeyOut, keyPEM, 0600); err != nil {
		return errors.Wrap(err, "writing private key")
	}

	level.Debug(logger).Log(
		"msg", "wrote identity",
		"cert_out", *flCertOut,
		"key_out", *flKeyOut,
	)

	return nil
}

func writeOutput(out io.Writer, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	return os.WriteFile(path, data, perm)
}
