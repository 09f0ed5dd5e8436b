package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/rootfind"
	"github.com/njchilds90/rootfind/chart"
)

type methodCommand struct {
	method  rootfind.Method
	short   string
	inputs  []string
	example string
}

var methodCommands = []methodCommand{
	{
		method:  rootfind.MethodBisection,
		short:   "Bisection on a sign-changing bracket [xl, xr]",
		inputs:  []string{"xl", "xr"},
		example: `  rootfind bisection "x^3 - x - 2" --xl 1 --xr 2 --tol 0.001`,
	},
	{
		method:  rootfind.MethodFalsePosition,
		short:   "False position on a sign-changing bracket [xl, xr]",
		inputs:  []string{"xl", "xr"},
		example: `  rootfind false-position "x^3 - x - 2" --xl 1 --xr 2 --tol 0.001 --chart fp.png`,
	},
	{
		method:  rootfind.MethodNewtonRaphson,
		short:   "Newton-Raphson from an initial guess x0",
		inputs:  []string{"x0"},
		example: `  rootfind newton-raphson "x^2 - 4" --x0 1`,
	},
	{
		method:  rootfind.MethodSecant,
		short:   "Secant method from initial guesses xa and xb",
		inputs:  []string{"xa", "xb"},
		example: `  rootfind secant "exp(-x) - x" --xa 0 --xb 1 --round-off 6`,
	},
}

type solveFlags struct {
	variable  string
	values    map[string]*float64
	tolerance float64
	roundOff  int
	maxIter   int
	asJSON    bool
	chartFile string
}

func newSolveCmd(g *globals, mc methodCommand) *cobra.Command {
	f := &solveFlags{values: map[string]*float64{}}
	cmd := &cobra.Command{
		Use:     string(mc.method) + " <equation>",
		Short:   mc.short,
		Example: mc.example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, g, f, mc.method, args[0])
		},
	}
	for _, name := range mc.inputs {
		f.values[name] = new(float64)
		cmd.Flags().Float64Var(f.values[name], name, 0, "Initial value "+name)
		_ = cmd.MarkFlagRequired(name)
	}
	cmd.Flags().StringVar(&f.variable, "var", rootfind.DefaultVariable, "Free variable of the equation")
	if mc.method.Bracketing() {
		cmd.Flags().Float64Var(&f.tolerance, "tol", 0, "Stopping tolerance (default from config)")
	}
	cmd.Flags().IntVar(&f.roundOff, "round-off", 0, "Decimal places in the table (default from config)")
	cmd.Flags().IntVar(&f.maxIter, "max-iter", 0, "Iteration cap (default from config)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the trace as JSON")
	cmd.Flags().StringVar(&f.chartFile, "chart", "", "Write a convergence chart (.png, .svg or .pdf)")
	return cmd
}

func runSolve(cmd *cobra.Command, g *globals, f *solveFlags, m rootfind.Method, equation string) error {
	cfg, log, err := g.load(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	req := rootfind.Request{
		Method:        m,
		Equation:      equation,
		Variable:      f.variable,
		Tolerance:     f.tolerance,
		MaxIterations: f.maxIter,
		RoundOff:      f.roundOff,
	}
	for name, v := range f.values {
		if !cmd.Flags().Changed(name) {
			continue
		}
		switch name {
		case "xl":
			req.XL = rootfind.Float(*v)
		case "xr":
			req.XR = rootfind.Float(*v)
		case "x0":
			req.X0 = rootfind.Float(*v)
		case "xa":
			req.XA = rootfind.Float(*v)
		case "xb":
			req.XB = rootfind.Float(*v)
		}
	}
	cfg.Solver.Apply(&req)

	start := time.Now()
	tr, err := rootfind.Solve(req)
	if err != nil {
		log.Debug("solve failed", zap.String("method", string(m)), zap.Error(err))
		return err
	}
	log.Debug("solve finished",
		zap.String("method", string(m)),
		zap.String("policy", tr.Policy.String()),
		zap.Int("iterations", tr.Iterations),
		zap.Bool("converged", tr.Converged),
		zap.Duration("elapsed", time.Since(start)),
	)

	if f.chartFile != "" {
		if err := writeChart(f.chartFile, tr); err != nil {
			return err
		}
		log.Debug("chart written", zap.String("file", f.chartFile))
	}

	view := tr.View()
	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	printView(cmd.OutOrStdout(), view)
	return nil
}

// printView renders the iteration table followed by the result lines.
func printView(w io.Writer, v rootfind.View) {
	printf(w, "%s\n", v.Title)
	if v.Derivative != "" {
		printf(w, "f'(x) = %s\n", v.Derivative)
	}
	printf(w, "\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	printf(tw, "%s\t\n", strings.Join(v.Headers, "\t"))
	for _, row := range v.Rows {
		printf(tw, "%s\t\n", strings.Join(row, "\t"))
	}
	_ = tw.Flush()

	printf(w, "\nRoot: %s\n", v.Root)
	if v.FXRoot != "" {
		printf(w, "f(root): %s\n", v.FXRoot)
	}
	if !v.Converged {
		printf(w, "Stopped after %d iterations without converging\n", v.Iterations)
	}
}

func writeChart(file string, tr *rootfind.Trace) error {
	format := filepath.Ext(file)
	out, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if err := chart.Render(out, tr, chart.Options{Format: format}); err != nil {
		_ = out.Close()
		_ = os.Remove(file)
		return err
	}
	return out.Close()
}
