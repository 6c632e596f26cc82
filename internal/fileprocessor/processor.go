// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/retroenv/nesutils/internal/chr"
	"github.com/retroenv/nesutils/internal/disasm"
	"github.com/retroenv/nesutils/internal/engine"
	"github.com/retroenv/nesutils/internal/loader"
	"github.com/retroenv/nesutils/internal/options"
	"github.com/retroenv/nesutils/internal/rom"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateOutput is returned when two artifacts would be written to the same file.
var ErrDuplicateOutput = errors.New("duplicate output path")

// job is an engine together with its computed artifact and destination.
type job struct {
	engine   engine.Engine
	stem     string // output stem the engine derives its default path from
	artifact engine.Artifact
	path     string
}

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, engines options.Engines) error {
	return process(ctx, logger, opts, engines, os.Stdout)
}

func process(ctx context.Context, logger *log.Logger, opts options.Program,
	engines options.Engines, console io.Writer) error {

	var img *rom.Image
	if engines.NeedsInput() {
		var err error
		img, err = loader.New().Load(opts.Input, opts.Binary)
		if err != nil {
			return fmt.Errorf("loading ROM: %w", err)
		}
		logger.Debug("Loaded ROM",
			log.String("file", opts.Input),
			log.String("format", img.Format.String()),
			log.Int("prg_banks", img.PRGBanks),
			log.Int("chr_banks", img.CHRBanks),
			log.Uint16("mapper", img.MapperNumber()),
			log.Bool("trainer", img.HasTrainer))
	}

	output := engine.Output{
		Stem:    GenerateOutputStem(opts.Input),
		Console: console,
		Logger:  logger,
	}
	jobs, err := createJobs(logger, img, opts, engines, output)
	if err != nil {
		return err
	}

	if err := execute(ctx, jobs); err != nil {
		return err
	}
	if err := assignPaths(jobs, opts, output.Stem); err != nil {
		return err
	}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("persisting: %w", err)
		}
		if err := job.engine.Persist(job.path); err != nil {
			return fmt.Errorf("persisting %s: %w", job.engine.Name(), err)
		}
	}
	return nil
}

// GenerateOutputStem returns the input file name without its extension,
// the engines append their own suffixes to it.
func GenerateOutputStem(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)]
}

// createJobs creates the engines in the fixed order chr, disasm, Game Genie, PRNG.
func createJobs(logger *log.Logger, img *rom.Image, opts options.Program,
	engines options.Engines, output engine.Output) ([]*job, error) {

	var jobs []*job

	if engines.Chr {
		chrJobs, err := createChrJobs(logger, img, engines, output)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, chrJobs...)
	}

	if engines.Disasm {
		e := engine.NewDisassemble(engine.DisasmOptions{
			Output: output,
			Data:   img.PRG(),
			Decoder: disasm.Options{
				Start:      engines.Start,
				Unofficial: engines.Unofficial,
			},
			Listing: disasm.ListingOptions{
				BaseAddress:    engines.BaseAddress,
				HexComments:    engines.HexComments,
				OffsetComments: engines.OffsetComments,
			},
		})
		jobs = append(jobs, &job{engine: e, stem: output.Stem})
	}

	if engines.GameGenie {
		e := engine.NewGameGenie(engine.GameGenieOptions{
			Output: output,
			Code:   engines.Code,
		})
		jobs = append(jobs, &job{engine: e, stem: output.Stem})
	}

	if engines.Prng {
		e := engine.NewPrng(engine.PrngOptions{
			Output:    output,
			Seed:      engines.Seed,
			Iteration: engines.Iteration,
			Sequence:  engines.Sequence,
		})
		jobs = append(jobs, &job{engine: e, stem: output.Stem})
	}

	if len(jobs) == 0 && opts.Input != "" {
		logger.Warn("Nothing to process", log.String("file", opts.Input))
	}
	return jobs, nil
}

func createChrJobs(logger *log.Logger, img *rom.Image, engines options.Engines, output engine.Output) ([]*job, error) {
	if img.CHRBanks == 0 {
		logger.Warn("ROM has no CHR-ROM, skipping CHR extraction")
		return nil, nil
	}

	sheet := chr.SheetOptions{
		Columns: engines.Columns,
		Scale:   engines.Scale,
		Palette: chr.DefaultPalette,
	}
	if engines.Palette != "" {
		palette, err := chr.LoadPalette(engines.Palette)
		if err != nil {
			return nil, fmt.Errorf("loading palette: %w", err)
		}
		sheet.Palette = palette
	}

	if !engines.Banks {
		e := engine.NewChrExtract(engine.ChrOptions{
			Output: output,
			Data:   img.CHR(),
			Sheet:  sheet,
			Format: engines.ImageFormat,
		})
		return []*job{{engine: e, stem: output.Stem}}, nil
	}

	jobs := make([]*job, 0, img.CHRBanks)
	for i := range img.CHRBanks {
		data, err := img.CHRBank(i)
		if err != nil {
			return nil, fmt.Errorf("reading chr bank: %w", err)
		}
		bankOutput := output
		bankOutput.Stem = bankStem(output.Stem, i)
		e := engine.NewChrExtract(engine.ChrOptions{
			Output: bankOutput,
			Data:   data,
			Sheet:  sheet,
			Format: engines.ImageFormat,
		})
		jobs = append(jobs, &job{engine: e, stem: bankOutput.Stem})
	}
	return jobs, nil
}

func bankStem(stem string, bank int) string {
	return fmt.Sprintf("%s.bank%02d", stem, bank)
}

// execute runs all engines concurrently. Engines do not share state, the
// artifacts are stored in the job of every engine.
func execute(ctx context.Context, jobs []*job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("executing %s: %w", job.engine.Name(), err)
			}
			artifact, err := job.engine.Execute()
			if err != nil {
				return fmt.Errorf("executing %s: %w", job.engine.Name(), err)
			}
			job.artifact = artifact
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("running engines: %w", err)
	}
	return nil
}

// assignPaths sets the destination of every job. Without -o the engines use
// their default paths. A single engine writes to the -o path directly, with
// multiple engines the -o path is used as stem for all file artifacts.
func assignPaths(jobs []*job, opts options.Program, stem string) error {
	if opts.Output != "" {
		if len(jobs) == 1 {
			jobs[0].path = opts.Output
		} else {
			outputStem := GenerateOutputStem(opts.Output)
			for _, job := range jobs {
				suffix := strings.TrimPrefix(job.stem, stem)
				job.path = job.artifact.DefaultPath(outputStem + suffix)
			}
		}
	}

	seen := set.New[string]()
	if opts.Input != "" {
		seen.Add(filepath.Clean(opts.Input))
	}
	for _, job := range jobs {
		path := job.path
		if path == "" {
			path = job.artifact.DefaultPath(job.stem)
		}
		if path == "" || path == engine.ConsolePath {
			continue
		}

		path = filepath.Clean(path)
		if seen.Contains(path) {
			return fmt.Errorf("%w: %s", ErrDuplicateOutput, path)
		}
		seen.Add(path)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if strings.Contains(date, "unknown") {
		date = ""
	}
	logger.Info("nesutils", log.String("version", buildinfo.Version(version, commit, date)))
}
