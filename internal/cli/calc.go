package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/workbench/internal/calc"
)

const calcHelp = `Enter an expression and press Enter. Supported: digits, '.', '(', ')',
+ - * /, ** (power) and % (percent, "times 0.01"). A line starting with an operator
continues from the last result.
Commands: history, reset (clear history), clear, quit`

func newCalcCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluate arithmetic, or start an interactive calculator",
		Long: "With arguments, calc evaluates them as one expression and prints the result.\n" +
			"Without arguments it reads expressions line by line from stdin.\n\n" + calcHelp,
		Example: `  workbench calc "5+5%"
  workbench calc 10 / 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runCalcOnce(cmd, a, strings.Join(args, " "))
			}
			return runCalcREPL(cmd.InOrStdin(), cmd.OutOrStdout(), calc.New())
		},
	}
}

func runCalcOnce(cmd *cobra.Command, a *app, expression string) error {
	result, err := calc.Evaluate(expression)
	if err != nil {
		return err
	}
	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), calc.Entry{Expression: expression, Result: result})
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

// runCalcREPL feeds each input line to the calculator as one keystroke run.
// Errors are shown in place of a result and never end the session.
func runCalcREPL(in io.Reader, out io.Writer, c *calc.Calculator) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(out, calcHelp)
			continue
		case "history":
			for _, e := range c.History() {
				fmt.Fprintf(out, "%s = %s\n", e.Expression, e.Result)
			}
			continue
		case "reset":
			c.ResetHistory()
			continue
		case "clear", "c", "C":
			c.Clear()
			fmt.Fprintln(out, c.Display())
			continue
		}

		c.Append(line)
		result, err := c.Evaluate()
		if err != nil {
			fmt.Fprintf(out, "%s (%v)\n", result, err)
			continue
		}
		fmt.Fprintln(out, result)
	}
	return scanner.Err()
}
