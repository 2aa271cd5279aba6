package forthic

import (
	"fmt"
	"io"
	"sort"
)

// dumpInterpreter renders the data stack (top first) and, for every frame
// of the module stack from outermost (the app module) to innermost (where
// new definitions currently land), that module's dictionary names (newest
// first) and variable table (sorted by name).
func dumpInterpreter(w io.Writer, ip *Interpreter) {
	fmt.Fprintf(w, "stack (%d):\n", ip.stack.len())
	for i := len(ip.stack.values) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "  %s\n", ip.stack.values[i].String())
	}

	for depth, mod := range ip.moduleStack {
		dumpModule(w, mod, depth)
	}
}

func dumpModule(w io.Writer, mod *Module, depth int) {
	fmt.Fprintf(w, "module %q (depth %d) dictionary (%d):\n", mod.name, depth, len(mod.words))
	for i := len(mod.words) - 1; i >= 0; i-- {
		w2 := mod.words[i]
		if pos, ok := w2.Location(); ok {
			fmt.Fprintf(w, "  %-20s %v\n", w2.Name(), pos)
			continue
		}
		fmt.Fprintf(w, "  %s\n", w2.Name())
	}

	names := make([]string, 0, len(mod.variables))
	for name := range mod.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "module %q variables (%d):\n", mod.name, len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %-20s %s\n", name, mod.variables[name].Value.String())
	}
}
