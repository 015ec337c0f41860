package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"css2rust/css"
	"css2rust/gen"
	"css2rust/state"
)

// Analyze is the analyze subcommand: parses CSS input and reports what would
// be generated without writing anything.
func Analyze(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("analyze")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(src)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no CSS files found under (%s)", src)
	}

	var rules, media, animations, imports, warnings int
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", path, err)
		}

		name := filepath.Base(path)
		sheet := css.NewParser(log).Parse(data, name)

		var compound int
		selectors := make([]string, 0, len(sheet.Items))
		duplicates := make([]string, 0)
		seen := make(map[string]struct{})
		for _, r := range sheet.Rules() {
			selectors = append(selectors, r.Selector.Raw)
			if r.Selector.IsCompound() {
				compound++
			}
			if _, dup := seen[r.Selector.Raw]; dup {
				continue
			}
			seen[r.Selector.Raw] = struct{}{}
			// repeated rules for one selector merge into a single function
			if len(sheet.RulesBySelector(r.Selector.Raw)) > 1 {
				duplicates = append(duplicates, r.Selector.Raw)
			}
		}
		log.Info("Analyzed stylesheet",
			zap.String("source", name),
			zap.Int("rules", len(sheet.Rules())),
			zap.Int("compound_selectors", compound),
			zap.Int("media_blocks", len(sheet.MediaBlocks())),
			zap.Int("animations", len(sheet.Animations())),
			zap.Int("imports", len(sheet.Imports())),
			zap.Strings("selectors", selectors),
			zap.Strings("duplicate_selectors", duplicates))
		for _, w := range sheet.Warnings {
			log.Warn("Stylesheet warning", zap.String("source", name), zap.String("warning", w))
		}

		rules += len(sheet.Rules())
		media += len(sheet.MediaBlocks())
		animations += len(sheet.Animations())
		imports += len(sheet.Imports())
		warnings += len(sheet.Warnings)
	}

	log.Info("Analysis totals",
		zap.Int("files", len(inputs)),
		zap.Int("rules", rules),
		zap.Int("media_blocks", media),
		zap.Int("animations", animations),
		zap.Int("imports", imports),
		zap.Int("warnings", warnings))

	// second pass shows the module layout compilation would produce
	comps, err := buildComponents(ctx, env, src, log)
	if err != nil {
		return err
	}
	for _, comp := range comps {
		functions := make([]string, 0, len(comp.Sheets)+len(comp.Animations))
		for _, sheet := range comp.Sheets {
			functions = append(functions, sheet.Name)
			log.Debug("Component sheet", zap.String("tree", "\n"+sheet.Dump()))
		}
		for _, anim := range comp.Animations {
			functions = append(functions, "animation_"+gen.RustIdentifier(anim.Name))
		}
		log.Info("Would generate", zap.String("file", comp.Name+".rs"), zap.Strings("functions", functions))
	}
	return nil
}
