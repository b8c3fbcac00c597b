// Package calc implements the calculator tool: a restricted infix evaluator
// and the keystroke state machine that builds expressions for it.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// allowedChars is the character set accepted after percent rewriting.
const allowedChars = "0123456789+-*/.() "

// percentFactor replaces every '%' before validation.
const percentFactor = "*0.01"

// commentOpeners are character pairs the evaluator would read as the start
// of a comment, silently dropping the rest of the expression.
var commentOpeners = []string{"//", "/*"}

// resultPrecision is the number of decimal places kept for fractional results.
const resultPrecision = 8

// Evaluate computes expression in float64 and formats the result. A percent
// sign means "times 0.01" and "**" is power. Characters outside digits, '.',
// parentheses and + - * /, or the pairs "//" and "/*", fail with
// ErrInvalidExpression; syntax errors, division by zero and non-finite results
// fail with ErrEvaluation.
func Evaluate(expression string) (string, error) {
	safe := strings.ReplaceAll(expression, "%", percentFactor)
	for _, r := range safe {
		if !strings.ContainsRune(allowedChars, r) {
			return "", fmt.Errorf("%w: unexpected %q", types.ErrInvalidExpression, r)
		}
	}
	for _, op := range commentOpeners {
		if strings.Contains(safe, op) {
			return "", fmt.Errorf("%w: unsupported operator %q", types.ErrInvalidExpression, op)
		}
	}
	if strings.TrimSpace(safe) == "" {
		return "", fmt.Errorf("%w: empty expression", types.ErrEvaluation)
	}

	normalized, err := normalizeLiterals(safe)
	if err != nil {
		return "", err
	}

	program, err := expr.Compile(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrEvaluation, err)
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrEvaluation, err)
	}

	value, ok := toFloat(out)
	if !ok {
		return "", fmt.Errorf("%w: non-numeric result %T", types.ErrEvaluation, out)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return "", fmt.Errorf("%w: division by zero", types.ErrEvaluation)
	}
	return formatResult(value), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// formatResult prints exact integers without a decimal point and everything
// else rounded to eight places in shortest form.
func formatResult(v float64) string {
	if v == math.Trunc(v) {
		if v == 0 {
			v = 0 // drop negative zero
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	scale := math.Pow(10, resultPrecision)
	rounded := math.Round(v*scale) / scale
	if rounded == math.Trunc(rounded) {
		if rounded == 0 {
			rounded = 0
		}
		// A fraction that rounds away stays visibly non-integral.
		return strconv.FormatFloat(rounded, 'f', 1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// normalizeLiterals rewrites every number literal as a float so arithmetic
// never runs in wrapping integers: "7" becomes "7.0", ".5" becomes "0.5" and
// "5." becomes "5.0". A literal with two points, a lone point, or an integer
// with leading zeros such as "05" is malformed.
func normalizeLiterals(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); {
		if !isLiteralByte(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && isLiteralByte(s[j]) {
			j++
		}
		lit, err := normalizeLiteral(s[i:j])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		i = j
	}
	return b.String(), nil
}

func normalizeLiteral(lit string) (string, error) {
	intPart, fracPart, hasPoint := strings.Cut(lit, ".")
	if strings.Contains(fracPart, ".") || lit == "." {
		return "", fmt.Errorf("%w: malformed number %q", types.ErrEvaluation, lit)
	}
	trimmed := strings.TrimLeft(intPart, "0")
	if !hasPoint && trimmed != "" && trimmed != intPart {
		return "", fmt.Errorf("%w: leading zeros in %q", types.ErrEvaluation, lit)
	}
	if trimmed == "" {
		trimmed = "0"
	}
	if fracPart == "" {
		fracPart = "0"
	}
	return trimmed + "." + fracPart, nil
}

func isLiteralByte(c byte) bool {
	return c == '.' || (c >= '0' && c <= '9')
}
