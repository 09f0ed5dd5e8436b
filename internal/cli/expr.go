package cli

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/rootfind"
	"github.com/njchilds90/rootfind/expr"
)

func newDeriveCmd() *cobra.Command {
	var (
		variable string
		latex    bool
	)
	cmd := &cobra.Command{
		Use:     "derive <equation>",
		Short:   "Print the symbolic derivative of an equation",
		Example: `  rootfind derive "x^3 - x - 2"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := expr.Compile(args[0], variable)
			if err != nil {
				return err
			}
			d, err := fn.Derivative()
			if err != nil {
				return err
			}
			if latex {
				printf(cmd.OutOrStdout(), "%s\n", d.LaTeX())
				return nil
			}
			printf(cmd.OutOrStdout(), "%s\n", d)
			return nil
		},
	}
	cmd.Flags().StringVar(&variable, "var", rootfind.DefaultVariable, "Variable to differentiate with respect to")
	cmd.Flags().BoolVar(&latex, "latex", false, "Print LaTeX instead of plain text")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var (
		variable string
		x        float64
	)
	cmd := &cobra.Command{
		Use:     "eval <equation>",
		Short:   "Evaluate an equation at a point",
		Example: `  rootfind eval "x^2 - 2" --x 1.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := expr.Compile(args[0], variable)
			if err != nil {
				return err
			}
			y, err := fn.Eval(x)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%g\n", y)
			return nil
		},
	}
	cmd.Flags().StringVar(&variable, "var", rootfind.DefaultVariable, "Free variable of the equation")
	cmd.Flags().Float64Var(&x, "x", 0, "Point to evaluate at")
	_ = cmd.MarkFlagRequired("x")
	return cmd
}
