// Package stdlib installs forthic's standard-library words: stack
// shuffling, variable access, EXPORT, arithmetic and LENGTH, and the small
// set of always-available control words.
// Nothing here is baked into forthic.Create; a host calls Install once
// against a freshly created Interpreter before running any source.
package stdlib

import (
	"strings"
	"unicode"

	forthic "github.com/forthic-lang/forthic"
)

// Install registers the standard words into ip's app module, exportable so
// that any module can "{ EXPORT ... }" or import them by name.
func Install(ip *forthic.Interpreter) {
	app := ip.AppModule()
	for _, b := range builtins(ip) {
		app.AddExportable(b)
	}
}

func builtins(ip *forthic.Interpreter) []*forthic.Builtin {
	return []*forthic.Builtin{
		forthic.NewBuiltin("POP", bPop),
		forthic.NewBuiltin("DUP", bDup),
		forthic.NewBuiltin("SWAP", bSwap),
		forthic.NewBuiltin("NULL", bNull),
		forthic.NewBuiltin("NOP", bNop),
		forthic.NewBuiltin("IDENTITY", bNop),
		forthic.NewBuiltin("VARIABLES", bVariables),
		forthic.NewBuiltin("!", bSet),
		forthic.NewBuiltin("@", bGet),
		forthic.NewBuiltin("!@", bSetAndGet),
		forthic.NewBuiltin("DEFAULT", bDefault),
		forthic.NewBuiltin("*DEFAULT", bLazyDefault),
		forthic.NewBuiltin("INTERPRET", bInterpret),
		forthic.NewBuiltin("ARRAY?", bIsArray),
		forthic.NewBuiltin("INTERPOLATE", bInterpolate),
		forthic.NewBuiltin("EXPORT", bExport),
		forthic.NewBuiltin("+", bAdd),
		forthic.NewBuiltin("-", bSub),
		forthic.NewBuiltin("*", bMul),
		forthic.NewBuiltin("/", bDiv),
		forthic.NewBuiltin("LENGTH", bLength),
	}
}

func bPop(ip *forthic.Interpreter) error {
	_, err := ip.Pop()
	return err
}

func bDup(ip *forthic.Interpreter) error {
	v, err := ip.Peek()
	if err != nil {
		return err
	}
	return ip.Push(v.Clone())
}

func bSwap(ip *forthic.Interpreter) error {
	b, err := ip.Pop()
	if err != nil {
		return err
	}
	a, err := ip.Pop()
	if err != nil {
		return err
	}
	if err := ip.Push(b); err != nil {
		return err
	}
	return ip.Push(a)
}

func bNull(ip *forthic.Interpreter) error {
	return ip.Push(forthic.Null)
}

func bNop(ip *forthic.Interpreter) error { return nil }

func bVariables(ip *forthic.Interpreter) error {
	names, err := popStringArray(ip)
	if err != nil {
		return err
	}
	mod := ip.CurrentModule()
	for _, name := range names {
		if _, err := mod.DeclareVariable(name); err != nil {
			return err
		}
	}
	return nil
}

func bSet(ip *forthic.Interpreter) error {
	name, err := popName(ip)
	if err != nil {
		return err
	}
	val, err := ip.Pop()
	if err != nil {
		return err
	}
	_, err = ip.CurrentModule().SetVariable(name, val)
	return err
}

func bGet(ip *forthic.Interpreter) error {
	name, err := popName(ip)
	if err != nil {
		return err
	}
	v, ok := ip.CurrentModule().LookupVariable(name)
	if !ok {
		return ip.Push(forthic.Null)
	}
	return ip.Push(v.Value.Clone())
}

func bSetAndGet(ip *forthic.Interpreter) error {
	name, err := popName(ip)
	if err != nil {
		return err
	}
	val, err := ip.Pop()
	if err != nil {
		return err
	}
	v, err := ip.CurrentModule().SetVariable(name, val)
	if err != nil {
		return err
	}
	return ip.Push(v.Value.Clone())
}

func bDefault(ip *forthic.Interpreter) error {
	def, err := ip.Pop()
	if err != nil {
		return err
	}
	val, err := ip.Pop()
	if err != nil {
		return err
	}
	if val.Empty() {
		return ip.Push(def)
	}
	return ip.Push(val)
}

// bLazyDefault only runs the default-producing snippet when the value is
// actually empty, so an expensive or side-effecting default isn't paid for
// on the common path.
func bLazyDefault(ip *forthic.Interpreter) error {
	def, err := ip.Pop()
	if err != nil {
		return err
	}
	val, err := ip.Pop()
	if err != nil {
		return err
	}
	if !val.Empty() {
		return ip.Push(val)
	}
	return ip.Run(def.AsString())
}

func bInterpret(ip *forthic.Interpreter) error {
	src, err := ip.Pop()
	if err != nil {
		return err
	}
	return ip.Run(src.AsString())
}

func bIsArray(ip *forthic.Interpreter) error {
	v, err := ip.Pop()
	if err != nil {
		return err
	}
	return ip.Push(forthic.Bool(v.Kind() == forthic.KindArray))
}

// bAdd and bSub stay int when both operands are int, promoting to float
// the moment either operand is a float; bMul always promotes to float,
// per the interpolation-adjacent design note that elaborate numeric
// coercion belongs in a dedicated path rather than ad hoc per-operator
// rules. bDiv follows bMul's always-float discipline and rejects division
// by zero.
func bAdd(ip *forthic.Interpreter) error {
	a, b, err := popNumericPair(ip, "+")
	if err != nil {
		return err
	}
	if a.Kind() == forthic.KindInt && b.Kind() == forthic.KindInt {
		return ip.Push(forthic.Int(a.AsInt() + b.AsInt()))
	}
	return ip.Push(forthic.Float(asFloat(a) + asFloat(b)))
}

func bSub(ip *forthic.Interpreter) error {
	a, b, err := popNumericPair(ip, "-")
	if err != nil {
		return err
	}
	if a.Kind() == forthic.KindInt && b.Kind() == forthic.KindInt {
		return ip.Push(forthic.Int(a.AsInt() - b.AsInt()))
	}
	return ip.Push(forthic.Float(asFloat(a) - asFloat(b)))
}

func bMul(ip *forthic.Interpreter) error {
	a, b, err := popNumericPair(ip, "*")
	if err != nil {
		return err
	}
	return ip.Push(forthic.Float(asFloat(a) * asFloat(b)))
}

func bDiv(ip *forthic.Interpreter) error {
	a, b, err := popNumericPair(ip, "/")
	if err != nil {
		return err
	}
	if asFloat(b) == 0 {
		return forthic.ArithmeticError{Op: "/", Reason: "division by zero"}
	}
	return ip.Push(forthic.Float(asFloat(a) / asFloat(b)))
}

// bLength reports an array's element count or a string's byte length.
func bLength(ip *forthic.Interpreter) error {
	v, err := ip.Pop()
	if err != nil {
		return err
	}
	switch v.Kind() {
	case forthic.KindArray:
		return ip.Push(forthic.Int(int64(len(v.AsArray()))))
	case forthic.KindString:
		return ip.Push(forthic.Int(int64(len(v.AsString()))))
	default:
		return forthic.ArithmeticError{Op: "LENGTH", Reason: "operand has no length"}
	}
}

func popNumericPair(ip *forthic.Interpreter, op string) (a, b forthic.Value, err error) {
	b, err = ip.Pop()
	if err != nil {
		return forthic.Value{}, forthic.Value{}, err
	}
	a, err = ip.Pop()
	if err != nil {
		return forthic.Value{}, forthic.Value{}, err
	}
	if !isNumeric(a) || !isNumeric(b) {
		return forthic.Value{}, forthic.Value{}, forthic.ArithmeticError{Op: op, Reason: "operand is not a number"}
	}
	return a, b, nil
}

func isNumeric(v forthic.Value) bool {
	return v.Kind() == forthic.KindInt || v.Kind() == forthic.KindFloat
}

func asFloat(v forthic.Value) float64 {
	if v.Kind() == forthic.KindInt {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func bExport(ip *forthic.Interpreter) error {
	names, err := popStringArray(ip)
	if err != nil {
		return err
	}
	return ip.CurrentModule().Export(names...)
}

// bInterpolate pops one template string and substitutes ".name" occurrences
// with the current string form of variable name, looked up in the current
// module's variable table.
func bInterpolate(ip *forthic.Interpreter) error {
	tmpl, err := ip.Pop()
	if err != nil {
		return err
	}
	return ip.Push(forthic.String(interpolate(ip, tmpl.AsString())))
}

// interpolate recognizes ".name" only at the start of tmpl or right after
// whitespace, so that an ordinary sentence-ending or decimal dot is left
// alone. The name is the run of letters, digits, '_' and '-' after the dot,
// so trailing punctuation ("hello, .name!") stays in the output. "\."
// escapes a literal dot.
func interpolate(ip *forthic.Interpreter, tmpl string) string {
	mod := ip.CurrentModule()
	runes := []rune(tmpl)
	n := len(runes)
	var out strings.Builder
	atBoundary := true
	for i := 0; i < n; {
		c := runes[i]
		switch {
		case c == '\\' && i+1 < n && runes[i+1] == '.':
			out.WriteByte('.')
			i += 2
			atBoundary = false
		case c == '.' && atBoundary:
			j := i + 1
			for j < n && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_' || runes[j] == '-') {
				j++
			}
			name := string(runes[i+1 : j])
			if name == "" {
				out.WriteByte('.')
			} else if v, ok := mod.LookupVariable(name); ok {
				out.WriteString(v.Value.String())
			}
			i = j
			atBoundary = false
		default:
			out.WriteRune(c)
			atBoundary = unicode.IsSpace(c)
			i++
		}
	}
	return out.String()
}

func popName(ip *forthic.Interpreter) (string, error) {
	v, err := ip.Pop()
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func popStringArray(ip *forthic.Interpreter) ([]string, error) {
	v, err := ip.Pop()
	if err != nil {
		return nil, err
	}
	elems := v.AsArray()
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.AsString()
	}
	return out, nil
}
