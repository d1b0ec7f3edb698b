package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
	"github.com/zoobzio/veil"
	"github.com/zoobzio/veil/config"
	"github.com/zoobzio/veil/internal/server"
)

// App returns the command-line application.
func App() *cli.App {
	return &cli.App{
		Name:  "veil",
		Usage: "Obfuscate integer identifiers at API boundaries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"VEIL_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "salt",
				Usage: "override hashids.salt",
			},
			&cli.IntFlag{
				Name:  "min-length",
				Usage: "override hashids.minhashlength",
			},
		},
		Commands: []*cli.Command{
			encodeCommand(),
			decodeCommand(),
			domainsCommand(),
			serveCommand(),
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Encode identifiers into tokens",
		ArgsUsage: "ID...",
		Flags:     []cli.Flag{domainFlag()},
		Action: func(c *cli.Context) error {
			obf, d, err := codecFor(c)
			if err != nil {
				return err
			}
			for _, arg := range c.Args().Slice() {
				n, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("%w: %q", veil.ErrInvalidValue, arg)
				}
				token, err := obf.Encode(n, d)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, token)
			}
			return nil
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode tokens into identifiers",
		ArgsUsage: "TOKEN...",
		Flags:     []cli.Flag{domainFlag()},
		Action: func(c *cli.Context) error {
			obf, d, err := codecFor(c)
			if err != nil {
				return err
			}
			for _, arg := range c.Args().Slice() {
				n, err := obf.Decode(arg, d)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, n)
			}
			return nil
		},
	}
}

func domainsCommand() *cli.Command {
	return &cli.Command{
		Name:  "domains",
		Usage: "List identifier domains",
		Action: func(c *cli.Context) error {
			for _, d := range veil.Domains() {
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", d.Name, d.Prefix)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the students API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "override server.addr",
			},
			&cli.BoolFlag{
				Name:  "seed",
				Usage: "load sample students at startup",
			},
			&cli.BoolFlag{
				Name:  "in-memory",
				Usage: "keep students in memory only",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			logger := hclog.New(&hclog.LoggerOptions{
				Name:   "veil",
				Level:  cfg.LogLevel(),
				Output: c.App.ErrWriter,
			})
			if cfg.Hashids.Salt == "" {
				logger.Warn("hashids.salt is empty; tokens are predictable")
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, server.Options{
				Config: cfg,
				Logger: logger,
				Seed:   c.Bool("seed"),
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					logger.Error("close", "error", err)
				}
			}()

			return srv.Run(ctx)
		},
	}
}

func domainFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "domain",
		Aliases: []string{"d"},
		Usage:   "identifier domain (student, teacher, staff)",
		Value:   veil.Student.Name,
	}
}

// codecFor builds the obfuscator and resolves the --domain flag.
func codecFor(c *cli.Context) (*veil.Obfuscator, veil.Domain, error) {
	d, err := veil.ResolveDomain(c.String("domain"))
	if err != nil {
		return nil, veil.Domain{}, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, veil.Domain{}, err
	}
	obf, err := veil.NewObfuscator(cfg.Hashids)
	if err != nil {
		return nil, veil.Domain{}, err
	}
	return obf, d, nil
}

// loadConfig merges file, environment and flag settings.
func loadConfig(c *cli.Context) (*config.File, error) {
	hashids := map[string]any{}
	if c.IsSet("salt") {
		hashids["salt"] = c.String("salt")
	}
	if c.IsSet("min-length") {
		hashids["minhashlength"] = c.Int("min-length")
	}

	overrides := map[string]any{"hashids": hashids}
	if c.IsSet("addr") {
		overrides["server"] = map[string]any{"addr": c.String("addr")}
	}
	if c.Bool("in-memory") {
		overrides["storage"] = map[string]any{"inmemory": true}
	}

	return config.NewLoader(
		config.WithConfigFile(c.String("config")),
		config.WithOverrides(overrides),
	).Load()
}
