package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/PolyPack/internal/engine"
	"github.com/piwi3910/PolyPack/internal/export"
	"github.com/piwi3910/PolyPack/internal/importer"
	"github.com/piwi3910/PolyPack/internal/model"
	"github.com/piwi3910/PolyPack/internal/project"
)

// Streams are the standard streams a run reads and writes.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Execute runs the invocation and returns the process exit code. The error
// explains any non-zero code, except ExitSearchAborted caused only by
// regions hitting their budget or deadline.
func Execute(ctx context.Context, inv Invocation, std Streams) (int, error) {
	if inv.ConfigPath != "" {
		cfg, err := project.LoadAppConfig(inv.ConfigPath)
		if err != nil {
			return ExitInputError, fmt.Errorf("config: %w", err)
		}
		inv.applyDefaults(cfg)
	}

	puzzle, err := loadPuzzle(inv.PuzzlePath, std.Stdin)
	if err != nil {
		return ExitInputError, err
	}

	var logger *log.Logger
	if inv.Verbose {
		logger = log.New(std.Stderr, "", log.Lmicroseconds)
		logger.Printf("puzzle %s: %d shapes, %d regions, strategy %s, budget %d, timeout %s",
			puzzle.Name, len(puzzle.Shapes), len(puzzle.Regions),
			inv.Settings.Strategy, inv.Settings.NodeBudget, timeoutLabel(inv.Settings.Timeout))
	}

	if inv.Command == CommandCompare {
		return runCompare(ctx, inv, puzzle, std.Stdout)
	}
	return runSolve(ctx, inv, puzzle, logger, std.Stdout)
}

// loadPuzzle reads a saved project by extension, otherwise the text format.
func loadPuzzle(path string, stdin io.Reader) (model.Puzzle, error) {
	switch {
	case path == "-":
		p, err := importer.ParsePuzzle(stdin)
		if err != nil {
			return model.Puzzle{}, fmt.Errorf("stdin: %w", err)
		}
		p.Name = "stdin"
		return p, nil
	case strings.EqualFold(filepath.Ext(path), project.FileExtension):
		return project.LoadPuzzle(path)
	default:
		return importer.ParsePuzzleFile(path)
	}
}

func runSolve(ctx context.Context, inv Invocation, puzzle model.Puzzle, logger *log.Logger, out io.Writer) (int, error) {
	solver := engine.New(inv.Settings)
	solver.Logger = logger

	// An interrupted run still reports the verdicts reached so far.
	result, err := solver.Solve(ctx, puzzle)
	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	switch {
	case errors.Is(err, model.ErrInvalidRegion):
		return ExitInputError, err
	case err != nil && !interrupted:
		return ExitInternalError, err
	}

	if inv.Print {
		fmt.Fprint(out, export.RenderSummary(result))
		for i, rr := range result.Regions {
			if rr.Packable() {
				fmt.Fprintf(out, "\nregion %d (%s):\n%s", i+1, rr.Region.Label, export.RenderText(rr))
			}
		}
	}

	if err := writeOutputs(inv.Outputs, result, puzzle.Shapes); err != nil {
		return ExitInternalError, err
	}

	fmt.Fprintln(out, result.PackableCount())
	switch {
	case interrupted:
		return ExitSearchAborted, err
	case result.AbortedCount() > 0:
		return ExitSearchAborted, nil
	}
	return ExitSuccess, nil
}

// writeOutputs writes every requested report.
func writeOutputs(o Outputs, result model.PuzzleResult, cat model.Catalog) error {
	if o.PDF != "" {
		if err := export.ExportPDF(o.PDF, result, cat); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
	}
	if o.Labels != "" {
		if err := export.ExportLabels(o.Labels, result); err != nil {
			return fmt.Errorf("labels: %w", err)
		}
	}
	if o.Excel != "" {
		if err := export.ExportExcel(o.Excel, result, cat); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}
	if o.JSON != "" {
		if err := export.ExportJSON(o.JSON, result); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}
	if o.DXFDir != "" {
		if err := os.MkdirAll(o.DXFDir, 0755); err != nil {
			return fmt.Errorf("dxf: %w", err)
		}
		for i, rr := range result.Regions {
			if !rr.Packable() {
				continue
			}
			path := filepath.Join(o.DXFDir, fmt.Sprintf("region-%d.dxf", i+1))
			if err := export.ExportDXF(path, rr); err != nil {
				return fmt.Errorf("dxf: %w", err)
			}
		}
	}
	return nil
}

func runCompare(ctx context.Context, inv Invocation, puzzle model.Puzzle, out io.Writer) (int, error) {
	results, err := engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(inv.Settings), puzzle)
	if err != nil {
		if errors.Is(err, model.ErrInvalidRegion) {
			return ExitInputError, err
		}
		return ExitInternalError, err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSTRATEGY\tWORKERS\tPACKABLE\tABORTED\tNODES\tTIME")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Scenario.Name, r.Scenario.Settings.Strategy, r.Scenario.Settings.Workers,
			r.PackableCount, r.AbortedCount, r.Nodes, r.Elapsed)
	}
	if err := tw.Flush(); err != nil {
		return ExitInternalError, err
	}

	if !engine.VerdictsAgree(results) {
		return ExitInternalError, errors.New("scenarios disagree on at least one region")
	}
	fmt.Fprintln(out, results[0].PackableCount)
	for _, r := range results {
		if r.AbortedCount > 0 {
			return ExitSearchAborted, nil
		}
	}
	return ExitSuccess, nil
}
