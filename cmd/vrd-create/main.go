package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"go.uber.org/zap"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
	"github.com/reallyoldfogie/vrd-capture-go/vrd/script"
)

type CreateConfig struct {
	Out      string `cli:"name=out desc='output capture path default example.vrd'"`
	Script   string `cli:"name=script desc='YAML capture script to play'"`
	Compress bool   `cli:"name=compress desc='raw deflate the capture'"`
	Level    int    `cli:"name=level desc='deflate level 1-9 default 1'"`
	Keys     int    `cli:"name=keys desc='entity key width in bits, up to 32 maps keys directly default 64'"`
	Verbose  bool   `cli:"name=v desc='log capture diagnostics'"`

	Create *cli.Command
}

func CreateCommand() *cli.Command {
	cfg := &CreateConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Create, "vrd-create").
		WithSynopsis("vrd-create [-out file.vrd] [-compress] [-script script.yaml]").
		WithDescription("record a capture file, optionally driven by a YAML script").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return create(cfg, cc, args)
		})
}

func create(cfg *CreateConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Create.Parse(cc, args); err != nil {
		cfg.Create.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if cfg.Out == "" {
		cfg.Out = "example.vrd"
	}

	log := zap.NewNop()
	if cfg.Verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		log = l
		defer func() { _ = log.Sync() }()
	}

	var s *script.Script
	if cfg.Script != "" {
		var err error
		if s, err = script.Load(cfg.Script); err != nil {
			return err
		}
	}

	opts := []vrd.Option{vrd.WithLogger(log)}
	if cfg.Level != 0 {
		opts = append(opts, vrd.WithCompressionLevel(cfg.Level))
	}
	if cfg.Keys != 0 {
		opts = append(opts, vrd.WithKeyWidth(cfg.Keys))
	}
	c, err := vrd.Create(cfg.Out, cfg.Compress, opts...)
	if err != nil {
		return fmt.Errorf("create capture: %w", err)
	}

	// With no script, still produce a valid empty capture.
	if s != nil {
		if err := script.Play(c, s); err != nil {
			_ = c.Close()
			return fmt.Errorf("play %s: %w", cfg.Script, err)
		}
	}
	frames := c.Frame()
	if err := c.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	fmt.Fprintf(cc.Out, "wrote %s (%d frames)\n", cfg.Out, frames)
	return nil
}

func main() {
	cli.MainContext(context.Background(), CreateCommand())
}
