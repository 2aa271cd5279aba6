package forthic

import "fmt"

// Module is a named dictionary: an append-ordered list of Words searched
// newest-first, a variable table, a set of exportable word names, and any
// sub-modules nested under it via "{name ... }". The app module (name "")
// sits at the bottom of every Interpreter's module stack.
type Module struct {
	name       string
	interp     *Interpreter
	words      []Word
	exportable map[string]bool
	variables  map[string]*Variable
	submodules map[string]*Module
	memoSlots  map[string]*memoSlot
	imports    map[string][]string
}

func NewModule(name string, interp *Interpreter) *Module {
	return &Module{name: name, interp: interp}
}

func (m *Module) Name() string    { return m.name }
func (m *Module) Words() []Word   { return m.words }

// DefineWord appends w to the dictionary. A later lookup of the same name
// finds it before (shadowing) anything defined earlier.
func (m *Module) DefineWord(w Word) { m.words = append(m.words, w) }

// AddExportable appends w and immediately marks its name exportable, for
// host-registered standard-library builtins that should be visible to
// importers by default.
func (m *Module) AddExportable(w Word) {
	m.words = append(m.words, w)
	m.markExportable(w.Name())
}

func (m *Module) markExportable(name string) {
	if m.exportable == nil {
		m.exportable = map[string]bool{}
	}
	m.exportable[name] = true
}

// Export marks already-defined names exportable from this module. Per the
// decided reading of the EXPORT open question, this always scopes to m
// itself (the module the word is running inside when EXPORT is called),
// never to some ancestor on the module stack.
func (m *Module) Export(names ...string) error {
	for _, n := range names {
		if _, ok := m.lookupWord(n); !ok {
			return ModuleError{Reason: fmt.Sprintf("cannot export undefined word %q", n)}
		}
		m.markExportable(n)
	}
	return nil
}

func (m *Module) lookupWord(name string) (Word, bool) {
	for i := len(m.words) - 1; i >= 0; i-- {
		if m.words[i].Name() == name {
			return m.words[i], true
		}
	}
	return nil, false
}

// DefineMemo installs or replaces the memo named name. If name currently
// resolves in m (newest-first) to this module's memo of that name, its
// slot's underlying Memo is swapped in place, so existing dictionary
// entries for NAME/NAME!/NAME!@ - including ones already Imported into
// another module - pick up the new body. Otherwise three fresh entries are
// appended, shadowing whatever that name previously resolved to.
func (m *Module) DefineMemo(name string, inner Word, pos Position) *Memo {
	memo := &Memo{name: name, inner: inner, pos: pos}
	if slot, ok := m.memoSlots[name]; ok {
		if w, found := m.lookupWord(name); found {
			if dw, isMemo := w.(*memoDictWord); isMemo && dw.slot == slot {
				slot.memo = memo
				return memo
			}
		}
	}
	slot := &memoSlot{name: name, memo: memo}
	if m.memoSlots == nil {
		m.memoSlots = map[string]*memoSlot{}
	}
	m.memoSlots[name] = slot
	m.words = append(m.words,
		&memoDictWord{slot: slot},
		&memoRefreshWord{slot: slot},
		&memoRefreshAndPushWord{slot: slot},
	)
	return memo
}

// DeclareVariable ensures name exists in m's variable table, creating it
// bound to Null if absent.
func (m *Module) DeclareVariable(name string) (*Variable, error) {
	if isReservedVariableName(name) {
		return nil, InvalidVariableNameError{Name: name}
	}
	if v, ok := m.variables[name]; ok {
		return v, nil
	}
	v := &Variable{Name: name, Value: Null}
	if m.variables == nil {
		m.variables = map[string]*Variable{}
	}
	m.variables[name] = v
	return v, nil
}

// SetVariable assigns val to name in m's own variable table, creating the
// binding if it doesn't already exist. Per the decided assignment open
// question, '!' always targets the current module's own table, never an
// ancestor's.
func (m *Module) SetVariable(name string, val Value) (*Variable, error) {
	if isReservedVariableName(name) {
		return nil, InvalidVariableNameError{Name: name}
	}
	v, ok := m.variables[name]
	if !ok {
		v = &Variable{Name: name}
		if m.variables == nil {
			m.variables = map[string]*Variable{}
		}
		m.variables[name] = v
	}
	v.Value = val
	return v, nil
}

func (m *Module) LookupVariable(name string) (*Variable, bool) {
	v, ok := m.variables[name]
	return v, ok
}

func (m *Module) SubModule(name string) (*Module, bool) {
	mod, ok := m.submodules[name]
	return mod, ok
}

// EnsureSubModule returns the named sub-module, creating an empty one the
// first time a "{name" token opens it.
func (m *Module) EnsureSubModule(name string) *Module {
	if mod, ok := m.submodules[name]; ok {
		return mod
	}
	mod := NewModule(name, m.interp)
	if m.submodules == nil {
		m.submodules = map[string]*Module{}
	}
	m.submodules[name] = mod
	return mod
}

// Import brings sub's exportable words into m. With an empty prefix they're
// added under their own names, unchanged; with a nonempty prefix each
// exported word W becomes reachable as "prefix.W" through a thin
// indirection that still delegates to the word sub owns, so later
// redefinition in sub (e.g. a memo refresh) is visible through the import.
func (m *Module) Import(sub *Module, prefix string) error {
	for name := range sub.exportable {
		word, ok := sub.lookupWord(name)
		if !ok {
			continue
		}
		if prefix == "" {
			m.words = append(m.words, word)
			continue
		}
		m.words = append(m.words, &prefixWord{fullName: prefix + "." + name, target: word})
	}
	if m.imports == nil {
		m.imports = map[string][]string{}
	}
	m.imports[sub.name] = append(m.imports[sub.name], prefix)
	return nil
}

type prefixWord struct {
	fullName string
	target   Word
}

func (w *prefixWord) Execute(ip *Interpreter) error { return w.target.Execute(ip) }
func (w *prefixWord) Name() string                  { return w.fullName }
func (w *prefixWord) Location() (Position, bool)    { return w.target.Location() }
