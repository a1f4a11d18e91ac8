// Command ecctool generates keys, encrypts, decrypts, signs and verifies
// with the curves of go-ecc. Keys and messages are exchanged as armored DER.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc/logging"
)

// env is the state shared by every command once flags are parsed.
type env struct {
	cfg Config
	log logging.Logger
	reg *curves.Registry

	stdin          io.Reader
	stdout, stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "ecctool",
		Usage:     "elliptic curve ECDH, ECDSA and EC-ElGamal tools",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML config file", EnvVars: []string{"ECCTOOL_CONFIG"}},
			&cli.StringFlag{Name: "curve", Aliases: []string{"c"}, Usage: "curve for new keys"},
			&cli.StringFlag{Name: "hash", Usage: "ECDSA message digest"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "registry", Usage: "extra YAML curve registry"},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c)
		},
		Commands: e.commands(),
		// main owns the exit code; the handler only records the failure.
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil || e.log == nil {
				return
			}
			name := ""
			if c.Command != nil {
				name = c.Command.Name
			}
			e.log.Debug(context.Background(), "command failed", "command", name, "error", err)
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	for flag, dst := range map[string]*string{
		"curve":     &cfg.Curve,
		"hash":      &cfg.Hash,
		"log-level": &cfg.LogLevel,
		"registry":  &cfg.Registry,
	} {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}

	e.cfg = cfg
	e.log = logging.NewText(e.stderr, logging.ParseLevel(cfg.LogLevel))
	e.reg, err = cfg.registry(e.log)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := cfg.Validate(e.reg); err != nil {
		return cli.Exit(err, 2)
	}
	e.log.Debug(c.Context, "configuration loaded", "curve", cfg.Curve, "hash", cfg.Hash, "registry", cfg.Registry)
	return nil
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "ecctool:", msg)
		}
		code := 1
		var ec cli.ExitCoder
		if errors.As(err, &ec) && ec.ExitCode() != 0 {
			code = ec.ExitCode()
		}
		os.Exit(code)
	}
}
