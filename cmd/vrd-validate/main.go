package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/reallyoldfogie/vrd-capture-go/vrd"
)

type ValidateConfig struct {
	Verbose bool `cli:"name=v desc='verbose output'"`
	Quiet   bool `cli:"name=q desc='quiet mode (errors only)'"`
	Dump    bool `cli:"name=dump desc='print every record'"`
	JSON    bool `cli:"name=json desc='print a JSON summary for each file'"`

	Validate *cli.Command
}

func ValidateCommand() *cli.Command {
	cfg := &ValidateConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Validate, "vrd-validate").
		WithSynopsis("vrd-validate [-v] [-q] [-dump] [-json] <capture.vrd> [capture2.vrd ...]").
		WithDescription("validates capture files and optionally dumps their records").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return validate(cfg, cc, args)
		})
}

func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		cfg.Validate.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one capture file is required", cli.ErrUsage)
	}
	if f, ok := cc.Out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		color.NoColor = true
	}
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	warn := color.New(color.FgYellow)

	failed := 0
	for _, file := range args {
		if cfg.Verbose {
			fmt.Fprintf(cc.Out, "Validating %s...\n", file)
		}
		s, err := vrd.ValidateFile(file)
		if err != nil {
			bad.Fprintf(os.Stderr, "❌ %s: %v\n", filepath.Base(file), err)
			failed++
			continue
		}
		if cfg.JSON {
			enc := json.NewEncoder(cc.Out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(s); err != nil {
				return err
			}
		} else if !cfg.Quiet {
			ok.Fprintf(cc.Out, "✅ %s: valid", filepath.Base(file))
			fmt.Fprintf(cc.Out, " (%d records, %d frames, %d entities, %.3fs, compressed=%t)\n",
				s.Records, s.Frames, s.Entities, s.Duration, s.Compressed)
			for _, w := range s.Warnings {
				warn.Fprintf(cc.Out, "   warning: %s\n", w)
			}
		}
		if cfg.Dump {
			if err := dump(cc.Out, file); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	if !cfg.Quiet && !cfg.JSON && len(args) > 1 {
		fmt.Fprintf(cc.Out, "\nAll %d capture files are valid!\n", len(args))
	}
	return nil
}

func dump(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rd, err := vrd.NewReader(f)
	if err != nil {
		return err
	}
	defer rd.Close()
	for rec, err := range rd.Records() {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, formatRecord(rec))
	}
	return nil
}

func formatRecord(r *vrd.Record) string {
	if r.Type == vrd.BlockFrameStep {
		return fmt.Sprintf("--- frame %d ends at %.4fs", r.Frame, r.Time)
	}
	head := fmt.Sprintf("%6d %5d %-18s", r.Frame, r.Entity, r.Type)
	switch r.Type {
	case vrd.BlockEntityDef:
		d := r.Def
		return fmt.Sprintf("%s name=%q path=%q type=%q category=%q at=%v params=%v",
			head, d.Name, d.Path, d.TypeName, d.Category, d.Transform.Translation, d.Params)
	case vrd.BlockEntityUndef:
		return head
	case vrd.BlockEntitySetPos:
		return fmt.Sprintf("%s %v", head, r.Points[0])
	case vrd.BlockEntitySetTransform:
		return fmt.Sprintf("%s %v", head, r.Transform)
	case vrd.BlockEntityLog:
		return fmt.Sprintf("%s [%s] %q %s", head, r.Category, r.Text, r.Color)
	case vrd.BlockEntityParameter:
		return fmt.Sprintf("%s %s=%q", head, r.Name, r.Text)
	case vrd.BlockEntityValue:
		return fmt.Sprintf("%s %s=%g", head, r.Name, r.Value)
	case vrd.BlockEntityMesh:
		return fmt.Sprintf("%s [%s] %d vertices %s", head, r.Category, len(r.Points), r.Color)
	case vrd.BlockEntityBox:
		return fmt.Sprintf("%s [%s] %v size=%v %s", head, r.Category, r.Transform, r.Points[0], r.Color)
	default:
		return fmt.Sprintf("%s [%s] %v r=%g %s", head, r.Category, r.Points, r.Radius, r.Color)
	}
}

func main() {
	cli.MainContext(context.Background(), ValidateCommand())
}
