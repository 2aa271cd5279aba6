package forthic

import (
	"io"
	"runtime/debug"

	"github.com/forthic-lang/forthic/internal/intern"
)

// Interpreter holds all of a Forthic session's mutable state: the data
// stack, the module stack (innermost module last), the registered literal
// handlers, and (while a definition is being read) the compiling state.
// None of it is safe for concurrent use; callers that want concurrency run
// one Interpreter per goroutine.
type Interpreter struct {
	stack           Stack
	app             *Module
	moduleStack     []*Module
	literalHandlers []LiteralHandler

	isCompiling bool
	isMemo      bool
	currentDef  *Definition

	names intern.Pool

	Trace func(format string, args ...interface{})
}

// Option configures an Interpreter at Create time.
type Option interface{ apply(ip *Interpreter) }

type optionFunc func(ip *Interpreter)

func (f optionFunc) apply(ip *Interpreter) { f(ip) }

// WithTrace installs a callback invoked for every token dispatched and
// every word executed; nil (the default) disables tracing entirely.
func WithTrace(fn func(format string, args ...interface{})) Option {
	return optionFunc(func(ip *Interpreter) { ip.Trace = fn })
}

// WithStackLimit caps the data stack at n entries; pushing past the limit
// is reported the same way as any other stack misuse. Zero (the default)
// means unlimited.
func WithStackLimit(n int) Option {
	return optionFunc(func(ip *Interpreter) { ip.stack.limit = n })
}

// WithLiteralHandler registers an additional literal handler, tried after
// the four standard ones (bool, float, int, datetime) in registration
// order.
func WithLiteralHandler(h LiteralHandler) Option {
	return optionFunc(func(ip *Interpreter) { ip.literalHandlers = append(ip.literalHandlers, h) })
}

// Create builds a ready-to-run Interpreter: an empty app module, the
// standard literal handlers, and whatever opts ask for. Standard-library
// words are not baked in here; install them with stdlib.Install.
func Create(opts ...Option) *Interpreter {
	ip := &Interpreter{}
	ip.app = NewModule("", ip)
	ip.moduleStack = []*Module{ip.app}
	ip.literalHandlers = []LiteralHandler{
		boolLiteralHandler,
		floatLiteralHandler,
		intLiteralHandler,
		datetimeLiteralHandler,
	}
	for _, opt := range opts {
		opt.apply(ip)
	}
	return ip
}

// AppModule returns the interpreter's root module.
func (ip *Interpreter) AppModule() *Module { return ip.app }

// CurrentModule returns the module at the top of the module stack: the one
// new definitions and variable assignments target.
func (ip *Interpreter) CurrentModule() *Module { return ip.moduleStack[len(ip.moduleStack)-1] }

func (ip *Interpreter) Push(v Value) error    { return ip.stack.push(v) }
func (ip *Interpreter) Pop() (Value, error)   { return ip.stack.pop() }
func (ip *Interpreter) Peek() (*Value, error) { return ip.stack.peek() }
func (ip *Interpreter) Length() int           { return ip.stack.len() }
func (ip *Interpreter) Clear()                { ip.stack.clear() }

// Run tokenizes and dispatches source against the interpreter's current
// state, returning once the tokenizer reaches end-of-input or an error
// occurs. A panic escaping a host-supplied Builtin is recovered at this
// boundary and reported as an internalError rather than crashing the host.
func (ip *Interpreter) Run(source string) error {
	return ip.run(NewTokenizer(source, nil, false))
}

// RunNamed is Run, but reported positions carry name (e.g. a source file
// path), for hosts running more than one source fragment in the same
// session.
func (ip *Interpreter) RunNamed(name, source string) error {
	return ip.run(NewTokenizer(source, &Position{Name: name, Line: 1, Column: 1}, false))
}

func (ip *Interpreter) run(tok *Tokenizer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = internalError{Recovered: r, Stack: string(debug.Stack())}
		}
	}()
	for {
		t, terr := tok.Next()
		if terr != nil {
			return terr
		}
		if ip.Trace != nil {
			ip.Trace("token %v %q @%v", t.Kind, t.Text, t.Pos)
		}
		if t.Kind == TokEOS {
			if ip.isCompiling {
				return MissingTerminatorError{baseError: withPos(t.Pos), Name: ip.currentDef.name}
			}
			return nil
		}
		if err := ip.dispatch(t); err != nil {
			return err
		}
	}
}

func (ip *Interpreter) dispatch(t Token) error {
	if t.Kind == TokComment {
		return nil
	}
	if ip.isCompiling {
		return ip.dispatchCompiling(t)
	}
	return ip.dispatchExecuting(t)
}

func (ip *Interpreter) dispatchExecuting(t Token) error {
	switch t.Kind {
	case TokWord:
		word, err := ip.findWord(t.Text, t.Pos)
		if err != nil {
			return err
		}
		return ip.execute(word)
	case TokString:
		return ip.execute(&pushValueWord{name: "<string>", value: String(t.Text), pos: t.Pos, hasPos: true})
	case TokDotSymbol:
		return ip.execute(&pushValueWord{name: t.Text, value: String(t.Name), pos: t.Pos, hasPos: true})
	case TokStartArray:
		return ip.execute(builtinStartArray)
	case TokEndArray:
		return ip.execute(builtinEndArray)
	case TokStartModule:
		return ip.openModule(t.Name)
	case TokEndModule:
		return ip.closeModule(t.Pos)
	case TokStartDef:
		ip.beginDefinition(t.Name, t.Pos, false)
		return nil
	case TokStartMemo:
		ip.beginDefinition(t.Name, t.Pos, true)
		return nil
	case TokEndDef:
		return ExtraTerminatorError{baseError: withPos(t.Pos)}
	default:
		return nil
	}
}

func (ip *Interpreter) dispatchCompiling(t Token) error {
	switch t.Kind {
	case TokWord:
		word, err := ip.findWord(t.Text, t.Pos)
		if err != nil {
			return err
		}
		ip.currentDef.words = append(ip.currentDef.words, word)
		return nil
	case TokString:
		ip.currentDef.words = append(ip.currentDef.words, &pushValueWord{name: "<string>", value: String(t.Text), pos: t.Pos, hasPos: true})
		return nil
	case TokDotSymbol:
		ip.currentDef.words = append(ip.currentDef.words, &pushValueWord{name: t.Text, value: String(t.Name), pos: t.Pos, hasPos: true})
		return nil
	case TokStartArray:
		ip.currentDef.words = append(ip.currentDef.words, builtinStartArray)
		return nil
	case TokEndArray:
		ip.currentDef.words = append(ip.currentDef.words, builtinEndArray)
		return nil
	case TokStartDef, TokStartMemo:
		return NestedDefinitionError{baseError: withPos(t.Pos), Reason: "definitions cannot nest"}
	case TokStartModule, TokEndModule:
		return NestedDefinitionError{baseError: withPos(t.Pos), Reason: "module structure is not allowed inside a definition"}
	case TokEndDef:
		return ip.finishDefinition()
	default:
		return nil
	}
}

func (ip *Interpreter) execute(w Word) error {
	if ip.Trace != nil {
		ip.Trace("exec %s", w.Name())
	}
	return w.Execute(ip)
}

func (ip *Interpreter) closeArray() error {
	var elems []Value
	for {
		v, err := ip.stack.pop()
		if err != nil {
			return StackUnderflowError{Op: "]"}
		}
		if v.IsArrayStart() {
			break
		}
		elems = append(elems, v)
	}
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	return ip.stack.push(Array(elems))
}

func (ip *Interpreter) openModule(name string) error {
	if name == "" {
		ip.moduleStack = append(ip.moduleStack, ip.app)
		return nil
	}
	sub := ip.CurrentModule().EnsureSubModule(ip.names.String(name))
	ip.moduleStack = append(ip.moduleStack, sub)
	return nil
}

func (ip *Interpreter) closeModule(pos Position) error {
	if len(ip.moduleStack) <= 1 {
		return ModuleError{baseError: withPos(pos), Reason: "cannot close the app module"}
	}
	ip.moduleStack = ip.moduleStack[:len(ip.moduleStack)-1]
	return nil
}

func (ip *Interpreter) beginDefinition(name string, pos Position, memo bool) {
	ip.currentDef = &Definition{name: name, pos: pos}
	ip.isCompiling = true
	ip.isMemo = memo
}

func (ip *Interpreter) finishDefinition() error {
	def := ip.currentDef
	mod := ip.CurrentModule()
	if ip.isMemo {
		mod.DefineMemo(def.name, def, def.pos)
	} else {
		mod.DefineWord(def)
	}
	ip.currentDef = nil
	ip.isCompiling = false
	ip.isMemo = false
	return nil
}

// findWord implements the lookup order: the module stack from innermost
// to outermost, checking each module's dictionary then its variable table,
// and only once every module has been checked does it fall through to the
// registered literal handlers.
func (ip *Interpreter) findWord(text string, pos Position) (Word, error) {
	text = ip.names.String(text)
	for i := len(ip.moduleStack) - 1; i >= 0; i-- {
		mod := ip.moduleStack[i]
		if w, ok := mod.lookupWord(text); ok {
			return w, nil
		}
		if v, ok := mod.LookupVariable(text); ok {
			return &pushValueWord{name: text, value: v.Value, pos: pos, hasPos: true}, nil
		}
	}
	for _, h := range ip.literalHandlers {
		if v, ok := h(text); ok {
			return &pushValueWord{name: text, value: v, pos: pos, hasPos: true}, nil
		}
	}
	return nil, UnknownWordError{baseError: withPos(pos), Word: text}
}

// Dump writes a human-readable snapshot of the interpreter's stack and,
// for every frame of the module stack, that module's dictionary and
// variable table, for debugging and the REPL's ".dump" meta-command.
func (ip *Interpreter) Dump(w io.Writer) {
	dumpInterpreter(w, ip)
}
