package core

import "fmt"

// DefaultRecursionLimit bounds procedure call nesting (spec §5).
const DefaultRecursionLimit = 1000

// Interp is the evaluation engine: value lifecycle, callframes, the command
// registry and the reference/GC subsystem all hang off one instance. It has
// no embedding-API concerns; the root package's Interp wraps one of these.
type Interp struct {
	freeValues []*Value
	liveValues map[*Value]struct{}

	strings *sharedStringPool

	global  *CallFrame
	frame   *CallFrame
	frameID int

	commands      *HashTable[*Command]
	commandEpoch  int
	unknownHandler NativeFunc

	refs            *HashTable[*Reference]
	refNextID       int64
	refsSinceGC     int
	lastCollectTime int64

	recursionLimit int
	depth          int

	result   *Value
	errStack []string

	// pendingReturnCode holds the code a "return -code X" set, consumed by
	// the next enclosing callProcedure boundary (spec §7 "RETURN is
	// absorbed at the boundary of the enclosing procedure").
	pendingReturnCode ReturnCode

	scriptCache map[string]*Script
	exprCache   map[string]*program
}

// NewInterp creates an interpreter with an empty global frame and registry.
func NewInterp() *Interp {
	ip := &Interp{
		liveValues:     make(map[*Value]struct{}),
		strings:        newSharedStringPool(),
		commands:       NewHashTable[*Command](),
		refs:           NewHashTable[*Reference](),
		recursionLimit: DefaultRecursionLimit,
		scriptCache:    make(map[string]*Script),
		exprCache:      make(map[string]*program),
	}
	ip.global = newCallFrame(nil, "::", 0)
	ip.frame = ip.global
	registerBuiltins(ip)
	return ip
}

// SetRecursionLimit configures the maximum procedure call nesting depth
// (spec §4.F, §6 "Interp.SetRecursionLimit").
func (ip *Interp) SetRecursionLimit(n int) {
	if n > 0 {
		ip.recursionLimit = n
	}
}

// GlobalFrame returns the interpreter's top-level callframe, the scope an
// embedder's Var/SetVar calls operate in (spec §3 "the top frame is created
// when the interpreter is born").
func (ip *Interp) GlobalFrame() *CallFrame { return ip.global }

// LiveValueCount reports the number of values currently allocated (tests and
// the --test-ht smoke check use this to confirm the free list is draining).
func (ip *Interp) LiveValueCount() int { return len(ip.liveValues) }

// FreeListLen reports the number of values sitting in the free list.
func (ip *Interp) FreeListLen() int { return len(ip.freeValues) }

func (ip *Interp) newError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
