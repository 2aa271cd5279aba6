package forthic

import "context"

// RemoteTransport is the contract a host implements to let a RemoteWord
// delegate execution to an external collaborator: the whole stack is
// snapshotted and handed over, and whatever comes back entirely replaces
// it. No concrete transport ships with this package; hosts wire
// their own (HTTP, gRPC, in-process RPC) against this interface.
type RemoteTransport interface {
	Invoke(ctx context.Context, wordName string, stack []Value) ([]Value, error)
}

// RemoteWord is a dictionary entry that executes by round-tripping through
// a RemoteTransport instead of running a local Definition.
type RemoteWord struct {
	name      string
	transport RemoteTransport
	ctx       context.Context
	pos       Position
}

// NewRemoteWord creates a RemoteWord named name that invokes transport
// when executed. If ctx is nil, context.Background() is used.
func NewRemoteWord(name string, transport RemoteTransport, ctx context.Context) *RemoteWord {
	return &RemoteWord{name: name, transport: transport, ctx: ctx}
}

func (w *RemoteWord) Execute(ip *Interpreter) error {
	ctx := w.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	snapshot := ip.stack.snapshot()
	results, err := w.transport.Invoke(ctx, w.name, snapshot)
	if err != nil {
		return RemoteExecutionError{baseError: baseError{cause: err}, Word: w.name}
	}
	ip.stack.clear()
	for _, v := range results {
		if err := ip.stack.push(v); err != nil {
			return err
		}
	}
	return nil
}

func (w *RemoteWord) Name() string              { return w.name }
func (w *RemoteWord) Location() (Position, bool) { return w.pos, false }
