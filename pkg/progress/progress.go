// Package progress relays transfer progress from the git client to
// the listeners of a command.
package progress

import (
	"regexp"
	"strconv"
	"strings"
)

// OpCode identifies the stage a progress tick belongs to.  The values
// form a bit set so Begin and End can be combined with a stage.
type OpCode int

// Stage op codes.
const (
	Begin       OpCode = 1 << 0
	End         OpCode = 1 << 1
	Counting    OpCode = 1 << 2
	Compressing OpCode = 1 << 3
	Writing     OpCode = 1 << 4
	Receiving   OpCode = 1 << 5
	Resolving   OpCode = 1 << 6
	Finding     OpCode = 1 << 7
	CheckingOut OpCode = 1 << 8
)

var stages = map[string]OpCode{
	"counting objects":    Counting,
	"enumerating objects": Counting,
	"compressing objects": Compressing,
	"writing objects":     Writing,
	"receiving objects":   Receiving,
	"resolving deltas":    Resolving,
	"finding sources":     Finding,
	"checking out files":  CheckingOut,
	"updating files":      CheckingOut,
}

var tickRe = regexp.MustCompile(`^(?:remote:\s*)?([A-Za-z ]+):\s+\d+%\s+\((\d+)/(\d+)\)`)

// Listener receives progress ticks.
type Listener interface {
	OnUpdateProgress(op OpCode, cur, total int, label string)
}

// A Relay forwards the ticks of one git operation to a listener with
// a fixed label.  It satisfies io.Writer so it can be handed to go-git
// as the sideband progress sink.
type Relay struct {
	l     Listener
	label string

	buf []byte
}

// NewRelay returns a relay reporting to l under label.
func NewRelay(l Listener, label string) *Relay {
	return &Relay{l: l, label: label}
}

// OnTick forwards a tick verbatim.
func (r *Relay) OnTick(op OpCode, cur, total int) {
	r.l.OnUpdateProgress(op, cur, total, r.label)
}

// Done marks the logical end of the operation.  It always emits one
// terminal tick since git stays silent when there is nothing to
// transfer, which would otherwise leave a progress display hanging.
func (r *Relay) Done() {
	r.flush()
	r.OnTick(End, 1, 1)
}

// Write consumes the raw sideband stream.  Updates are separated by
// carriage returns or newlines and may be split across writes.
func (r *Relay) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	for {
		i := strings.IndexAny(string(r.buf), "\r\n")
		if i < 0 {
			break
		}
		r.parse(string(r.buf[:i]))
		r.buf = r.buf[i+1:]
	}
	return len(p), nil
}

func (r *Relay) flush() {
	if len(r.buf) == 0 {
		return
	}
	r.parse(string(r.buf))
	r.buf = nil
}

func (r *Relay) parse(line string) {
	m := tickRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return
	}
	op, ok := stages[strings.ToLower(strings.TrimSpace(m[1]))]
	if !ok {
		return
	}
	cur, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}
	total, err := strconv.Atoi(m[3])
	if err != nil {
		return
	}
	if cur == 0 {
		op |= Begin
	}
	r.OnTick(op, cur, total)
}
