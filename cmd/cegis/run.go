package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/bitdep/cegis"
	"github.com/bitdep/cegis/z3"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// Result statuses.
const (
	StatusSat     = "sat"
	StatusUnsat   = "unsat"
	StatusTimeout = "timeout"
)

var (
	runConfigPath string
	runTimeout    time.Duration
	runSeed       int
	runJobs       int
	runStatsOut   string
	runDump       bool
)

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "read settings and problems from a TOML file")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "time limit per problem (0 = none)")
	runCmd.Flags().IntVar(&runSeed, "seed", 0, "random seed passed to the solver")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 1, "number of problems synthesized concurrently")
	runCmd.Flags().StringVar(&runStatsOut, "stats-out", "", "write msgpack-encoded reports to file")
	runCmd.Flags().BoolVar(&runDump, "dump", false, "print program internals")
}

var runCmd = &cobra.Command{
	Use:   "run [problem...]",
	Short: "Synthesize built-in problems",
	Long: `Run synthesizes each named problem, or every problem in the catalog if none
is named and no configuration file lists any.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := NewRunCommand()
		c.Stdout = cmd.OutOrStdout()

		if runConfigPath != "" {
			cfg, err := LoadConfig(runConfigPath)
			if err != nil {
				return err
			}
			if c.Settings, err = cfg.SynthesizerSettings(); err != nil {
				return err
			}
			if cfg.Settings.Jobs > 0 {
				c.Jobs = cfg.Settings.Jobs
			}
			c.Problems = cfg.Problems
		}

		flags := cmd.Flags()
		if flags.Changed("timeout") {
			c.Settings.Timeout = runTimeout
		}
		if flags.Changed("seed") {
			seed := runSeed
			c.Settings.RandomSeed = &seed
		}
		if flags.Changed("jobs") {
			c.Jobs = runJobs
		}
		c.StatsOut, c.Dump = runStatsOut, runDump

		if len(args) > 0 {
			c.Problems = nil
			for _, name := range args {
				if _, ok := Problems[name]; !ok {
					return fmt.Errorf("unknown problem %q, see 'cegis list'", name)
				}
				c.Problems = append(c.Problems, ProblemConfig{Name: name})
			}
		} else if len(c.Problems) == 0 {
			for _, name := range ProblemNames() {
				c.Problems = append(c.Problems, ProblemConfig{Name: name})
			}
		}
		return c.Run(cmd.Context())
	},
}

// RunCommand synthesizes a list of catalog problems.
type RunCommand struct {
	NewSolver cegis.SolverFunc
	Settings  cegis.Settings
	Problems  []ProblemConfig
	Jobs      int
	StatsOut  string
	Dump      bool

	Stdout io.Writer
}

// NewRunCommand returns a new instance of RunCommand.
func NewRunCommand() *RunCommand {
	return &RunCommand{
		NewSolver: z3.NewSolverFunc(),
		Settings:  cegis.DefaultSettings(),
		Jobs:      1,
		Stdout:    os.Stdout,
	}
}

// Report is the outcome of one problem.
type Report struct {
	Problem  string      `msgpack:"problem"`
	Status   string      `msgpack:"status"`
	Expected string      `msgpack:"expected"`
	Program  string      `msgpack:"program,omitempty"`
	Stats    cegis.Stats `msgpack:"stats"`

	dump string
}

// Run synthesizes every problem and prints one report per problem in order.
func (c *RunCommand) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reports := make([]*Report, len(c.Problems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(c.Jobs, len(c.Problems))))
	for i, p := range c.Problems {
		i, p := i, p
		g.Go(func() error {
			report, err := c.runProblem(gctx, p)
			if err != nil {
				return errors.Wrap(err, p.Name)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var mismatch int
	for _, r := range reports {
		c.printReport(r)
		if r.Status != StatusTimeout && r.Status != r.Expected {
			mismatch++
		}
	}

	if c.StatsOut != "" {
		if err := writeReports(c.StatsOut, reports); err != nil {
			return err
		}
	}
	if mismatch > 0 {
		return fmt.Errorf("%d problem(s) did not match the expected result", mismatch)
	}
	return nil
}

// runProblem synthesizes a single problem with its own synthesizer.
func (c *RunCommand) runProblem(ctx context.Context, pc ProblemConfig) (*Report, error) {
	p := Problems[pc.Name]
	spec, lib := p.New()
	if pc.SizeLimit > 0 {
		spec.SizeRestriction = pc.SizeLimit
	}

	report := &Report{Problem: p.Name, Expected: StatusUnsat}
	if p.Sat {
		report.Expected = StatusSat
	}

	sy := cegis.NewSynthesizer(c.NewSolver)
	sy.Settings = c.Settings

	log.Printf("[run] problem=%s components=%d", p.Name, lib.Len())
	prog, err := sy.SynthesizeDefault(ctx, spec, lib)
	report.Stats = sy.Stats()
	switch {
	case errors.Is(err, cegis.ErrTimeout):
		report.Status = StatusTimeout
	case err != nil:
		return nil, err
	case prog == nil:
		report.Status = StatusUnsat
	default:
		report.Status = StatusSat
		report.Program = prog.String()
		if c.Dump {
			report.dump = prog.Dump()
		}
	}
	return report, nil
}

func (c *RunCommand) printReport(r *Report) {
	var status string
	switch r.Status {
	case StatusSat:
		status = color.GreenString("SAT")
	case StatusUnsat:
		status = color.YellowString("UNSAT")
	default:
		status = color.RedString("TIMEOUT")
	}

	fmt.Fprintf(c.Stdout, "%s: %s (%d iterations, %s)\n", r.Problem, status, r.Stats.Iterations, r.Stats.Elapsed.Round(time.Millisecond))
	if r.Status != StatusTimeout && r.Status != r.Expected {
		fmt.Fprintf(c.Stdout, "%s\n", color.RedString("expected %s", r.Expected))
	}
	if r.Program != "" {
		fmt.Fprint(c.Stdout, r.Program)
	}
	if r.dump != "" {
		fmt.Fprint(c.Stdout, r.dump)
	}
}

// writeReports encodes the reports to a file as a msgpack array.
func writeReports(path string, reports []*Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := msgpack.NewEncoder(f).Encode(reports); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// ReadReports decodes reports written by writeReports.
func ReadReports(path string) ([]*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reports []*Report
	if err := msgpack.NewDecoder(f).Decode(&reports); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return reports, nil
}
