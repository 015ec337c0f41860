package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"css2rust/config"
	"css2rust/css"
	"css2rust/gen"
	"css2rust/state"
)

// Run is the convert subcommand: compiles CSS input into a Rust style module.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	env.SingleFile = cmd.Bool("single")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	comps, err := buildComponents(ctx, env, src, log)
	if err != nil {
		return err
	}
	if env.SingleFile {
		comps = collapseComponents(comps)
	}

	g := gen.New(log, env.Cfg.Document.Generator.ModuleDoc)
	files, err := g.Generate(comps)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			log.Error("Compilation failed", zap.Error(e))
		}
		return errors.New("unable to compile style module")
	}

	return writeFiles(env, dst, files, log)
}

// buildComponents parses every CSS input under src and folds it into
// components. src may be a single .css file or a directory tree.
func buildComponents(ctx context.Context, env *state.LocalEnv, src string, log *zap.Logger) ([]*gen.Component, error) {
	var mappings *gen.Mappings
	if !env.Cfg.Document.Mappings.Disable {
		var err error
		mappings, err = gen.LoadMappings(env.Cfg.Document.Mappings.Path)
		if err != nil {
			return nil, err
		}
	}

	builder := NewBuilder(log, env.Cfg.Document.Generator, mappings)

	inputs, err := collectInputs(src)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no CSS files found under (%s)", src)
	}

	var errs error
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to read %s: %w", path, err))
			continue
		}

		name := filepath.Base(path)
		sheet := css.NewParser(log).Parse(data, name)
		for _, w := range sheet.Warnings {
			log.Warn("Stylesheet warning", zap.String("source", name), zap.String("warning", w))
		}
		env.Rpt.StoreData("input/"+name, data)

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if err := builder.AddStylesheet(sheet, stem); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		for _, e := range multierr.Errors(errs) {
			log.Error("Input defect", zap.Error(e))
		}
		return nil, errors.New("unable to process input")
	}

	comps := builder.Components()
	if env.Cfg.Document.Generator.IncludeUtilities {
		comps = append(comps, gen.BuiltinUtilities())
	}
	return comps, nil
}

// collectInputs expands src into the list of CSS files to process, in
// deterministic walk order.
func collectInputs(src string) ([]string, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsRegular() {
		if !isCSSFile(src) {
			return nil, fmt.Errorf("input was not recognized as CSS (%s)", src)
		}
		return []string{src}, nil
	}
	if !fi.Mode().IsDir() {
		return nil, fmt.Errorf("unexpected path mode for (%s)", src)
	}

	var inputs []string
	err = filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && isCSSFile(path) {
			inputs = append(inputs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

func isCSSFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".css")
}

// collapseComponents merges everything into a single styles.rs component.
func collapseComponents(comps []*gen.Component) []*gen.Component {
	single := &gen.Component{Name: "styles"}
	for _, c := range comps {
		single.Sheets = append(single.Sheets, c.Sheets...)
		single.Animations = append(single.Animations, c.Animations...)
	}
	return []*gen.Component{single}
}

// writeFiles stores generated sources under dst. Existing files are only
// replaced when overwrite was requested.
func writeFiles(env *state.LocalEnv, dst string, files []gen.File, log *zap.Logger) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}

	for _, f := range files {
		path := filepath.Join(dst, config.CleanFileName(f.Name))
		if !env.Overwrite {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("output file already exists (%s), use --overwrite to replace it", path)
			}
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("unable to write %s: %w", path, err)
		}
		env.Rpt.StoreData("generated/"+f.Name, []byte(f.Content))
		log.Info("Generated", zap.String("file", path))
	}
	return nil
}
