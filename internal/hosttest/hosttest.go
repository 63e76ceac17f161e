// Package hosttest provides an instrumented in-memory host runtime for
// tests: reference-counted code units, all three call-frame layouts, a
// synthetic frame builder, and a swappable exception state. Reference
// counts are observable so tests can prove acquire-once/release-once.
package hosttest

import (
	"errors"
	"sync"
	"sync/atomic"

	"tracecap/internal/base"
)

// Lock is a fake execution lock. Acquire and Yield bracket lock-held
// regions in tests; Held is what the library asserts.
type Lock struct {
	mu   sync.Mutex
	held atomic.Bool
}

// NewLock returns an unheld lock.
func NewLock() *Lock { return &Lock{} }

// Acquire takes the lock, blocking until available.
func (l *Lock) Acquire() {
	l.mu.Lock()
	l.held.Store(true)
}

// Yield releases the lock.
func (l *Lock) Yield() {
	l.held.Store(false)
	l.mu.Unlock()
}

// Held reports whether the lock is currently held.
func (l *Lock) Held() bool { return l.held.Load() }

// With runs fn with the lock held.
func (l *Lock) With(fn func()) {
	l.Acquire()
	defer l.Yield()
	fn()
}

var nextCodeID atomic.Uint64

// LineEntry maps an instruction byte offset to the source line active
// from that offset onward.
type LineEntry struct {
	Offset int
	Line   int
}

// Code is a fake code unit with an instrumented reference count.
type Code struct {
	id        uint64
	file      string
	name      string
	firstLine int
	lines     []LineEntry // ascending by Offset

	refs atomic.Int32
}

// NewCode builds a code unit. Line entries must be given in ascending
// offset order. The initial reference count is zero: the host itself is
// assumed to keep the unit alive for the duration of the test.
func NewCode(file, name string, firstLine int, lines ...LineEntry) *Code {
	return &Code{
		id:        nextCodeID.Add(1),
		file:      file,
		name:      name,
		firstLine: firstLine,
		lines:     lines,
	}
}

func (c *Code) FileName() string { return c.file }
func (c *Code) Name() string     { return c.name }
func (c *Code) FirstLine() int   { return c.firstLine }
func (c *Code) ID() uint64       { return c.id }

// LineAt returns the line of the nearest entry at or before offset,
// falling back to the first line.
func (c *Code) LineAt(offset int) int {
	if offset <= 0 {
		return c.firstLine
	}
	line := c.firstLine
	for _, e := range c.lines {
		if e.Offset > offset {
			break
		}
		line = e.Line
	}
	return line
}

func (c *Code) Retain() { c.refs.Add(1) }

func (c *Code) Release() {
	if c.refs.Add(-1) < 0 {
		panic("hosttest: code unit reference count went negative")
	}
}

// Refs returns the current outstanding reference count.
func (c *Code) Refs() int32 { return c.refs.Load() }

// TotalRefs sums the outstanding references across code units.
func TotalRefs(codes ...*Code) int32 {
	var n int32
	for _, c := range codes {
		n += c.Refs()
	}
	return n
}

// LocCode is a Code that also answers column-level location queries.
type LocCode struct {
	Code
	locs []LocEntry
}

// LocEntry maps an instruction byte offset to a full source location.
type LocEntry struct {
	Offset   int
	Location base.Location
}

// NewLocCode builds a location-capable code unit.
func NewLocCode(file, name string, firstLine int, locs ...LocEntry) *LocCode {
	c := &LocCode{locs: locs}
	c.Code = Code{
		id:        nextCodeID.Add(1),
		file:      file,
		name:      name,
		firstLine: firstLine,
	}
	for _, l := range locs {
		c.Code.lines = append(c.Code.lines, LineEntry{Offset: l.Offset, Line: l.Location.StartLine})
	}
	return c
}

// LocationAt returns the location of the nearest entry at or before offset.
func (c *LocCode) LocationAt(offset int) base.Location {
	loc := base.Location{StartLine: c.firstLine, StartCol: 1, EndLine: c.firstLine, EndCol: 1}
	for _, e := range c.locs {
		if e.Offset > offset {
			break
		}
		loc = e.Location
	}
	return loc
}

// StackFrame describes one activation record for thread construction,
// innermost first. Lasti is in the layout's native unit: bytes for
// LayoutBytes, code words otherwise. Incomplete only matters on
// LayoutInternal.
type StackFrame struct {
	Code       base.Code
	Lasti      int
	Incomplete bool
}

// ---- LayoutBytes ----

type bytesFrame struct {
	code  base.Code
	lasti int
	back  *bytesFrame
}

func (f *bytesFrame) Code() base.Code { return f.code }
func (f *bytesFrame) LastInstr() int  { return f.lasti }
func (f *bytesFrame) Back() base.FrameBytes {
	if f.back == nil {
		return nil
	}
	return f.back
}

// BytesThread is a fake thread state for LayoutBytes hosts.
type BytesThread struct {
	top *bytesFrame
}

// NewBytesThread links frames (innermost first) into a LayoutBytes stack.
func NewBytesThread(frames ...StackFrame) *BytesThread {
	t := &BytesThread{}
	for i := len(frames) - 1; i >= 0; i-- {
		t.top = &bytesFrame{code: frames[i].Code, lasti: frames[i].Lasti, back: t.top}
	}
	return t
}

func (t *BytesThread) Frame() base.FrameBytes {
	if t.top == nil {
		return nil
	}
	return t.top
}

// ---- LayoutWords ----

type wordsFrame struct {
	code  base.Code
	lasti int
	back  *wordsFrame
}

func (f *wordsFrame) Code() base.Code    { return f.code }
func (f *wordsFrame) LastInstrWord() int { return f.lasti }
func (f *wordsFrame) Back() base.FrameWords {
	if f.back == nil {
		return nil
	}
	return f.back
}

// WordsThread is a fake thread state for LayoutWords hosts.
type WordsThread struct {
	top *wordsFrame
}

// NewWordsThread links frames (innermost first) into a LayoutWords stack.
func NewWordsThread(frames ...StackFrame) *WordsThread {
	t := &WordsThread{}
	for i := len(frames) - 1; i >= 0; i-- {
		t.top = &wordsFrame{code: frames[i].Code, lasti: frames[i].Lasti, back: t.top}
	}
	return t
}

func (t *WordsThread) Frame() base.FrameWords {
	if t.top == nil {
		return nil
	}
	return t.top
}

// ---- LayoutInternal ----

type internalFrame struct {
	code       base.Code
	lasti      int
	incomplete bool
	prev       *internalFrame
}

func (f *internalFrame) Code() base.Code    { return f.code }
func (f *internalFrame) LastInstrWord() int { return f.lasti }
func (f *internalFrame) Incomplete() bool   { return f.incomplete }
func (f *internalFrame) Previous() base.FrameInternal {
	if f.prev == nil {
		return nil
	}
	return f.prev
}

// InternalThread is a fake thread state for LayoutInternal hosts.
type InternalThread struct {
	top *internalFrame
}

// NewInternalThread links frames (innermost first) into a LayoutInternal
// stack.
func NewInternalThread(frames ...StackFrame) *InternalThread {
	t := &InternalThread{}
	for i := len(frames) - 1; i >= 0; i-- {
		t.top = &internalFrame{
			code:       frames[i].Code,
			lasti:      frames[i].Lasti,
			incomplete: frames[i].Incomplete,
			prev:       t.top,
		}
	}
	return t
}

func (t *InternalThread) CurrentFrame() base.FrameInternal {
	if t.top == nil {
		return nil
	}
	return t.top
}

// ---- Synthetic construction ----

// Builder fabricates fake frames and traceback links. Fabricated code
// units are validated the way stricter host builds validate them: empty
// names and non-positive lines are rejected.
type Builder struct{}

func (b *Builder) NewGlobals() base.Globals { return map[string]any{} }

func (b *Builder) NewCode(file, name string, line int) (base.Code, error) {
	if file == "" || name == "" {
		return nil, errors.New("hosttest: fabricated code unit needs file and name")
	}
	if line <= 0 {
		return nil, errors.New("hosttest: fabricated code unit needs a positive line")
	}
	return NewCode(file, name, line), nil
}

func (b *Builder) NewFrame(code base.Code, globals base.Globals) (base.FrameObject, error) {
	if code == nil {
		return nil, errors.New("hosttest: synthetic frame needs a code unit")
	}
	return &Frame{Code: code, Globals: globals}, nil
}

func (b *Builder) NewTracebackLink(next base.ForeignTraceback, frame base.FrameObject, lastInstr, line int) (base.ForeignTraceback, error) {
	if frame == nil {
		return nil, errors.New("hosttest: traceback link needs a frame")
	}
	return &Traceback{next: next, frame: frame, lastInstr: lastInstr, line: line}, nil
}

// Frame is the fake synthetic execution frame.
type Frame struct {
	Code    base.Code
	Globals base.Globals
}

// Traceback is the fake native traceback link.
type Traceback struct {
	next      base.ForeignTraceback
	frame     base.FrameObject
	lastInstr int
	line      int
}

func (t *Traceback) Next() base.ForeignTraceback      { return t.next }
func (t *Traceback) TracebackFrame() base.FrameObject { return t.frame }
func (t *Traceback) Line() int                        { return t.line }

// LastInstr returns the link's initial instruction offset.
func (t *Traceback) LastInstr() int { return t.lastInstr }

// ---- Host ----

// Host is the fake runtime. Thread is the state returned to the walker;
// tests swap it between captures. Exec is the fake execution lock tests
// bracket lock-held regions with.
type Host struct {
	Exec    *Lock
	Thread  base.ThreadState
	layout  base.StackLayout
	builder Builder
}

// NewHost creates a fake host with the given frame layout and an unheld
// execution lock.
func NewHost(layout base.StackLayout) *Host {
	return &Host{Exec: NewLock(), layout: layout}
}

func (h *Host) Lock() base.ExecLock             { return h.Exec }
func (h *Host) Layout() base.StackLayout        { return h.layout }
func (h *Host) CurrentThread() base.ThreadState { return h.Thread }
func (h *Host) Builder() base.FrameBuilder      { return &h.builder }

// ExcHost is a Host whose exception state is a plain mutable field, so it
// additionally supports traceback replacement.
type ExcHost struct {
	*Host
	active bool
	tb     base.ForeignTraceback
}

// NewExcHost creates a fake host with swappable exception state.
func NewExcHost(layout base.StackLayout) *ExcHost {
	return &ExcHost{Host: NewHost(layout)}
}

// Raise marks an exception active with the given traceback.
func (h *ExcHost) Raise(tb base.ForeignTraceback) {
	h.active = true
	h.tb = tb
}

// ClearExc deactivates the exception state.
func (h *ExcHost) ClearExc() {
	h.active = false
	h.tb = nil
}

func (h *ExcHost) ActiveExcTraceback() (base.ForeignTraceback, bool) {
	return h.tb, h.active
}

func (h *ExcHost) SetExcTraceback(tb base.ForeignTraceback) {
	h.tb = tb
}
