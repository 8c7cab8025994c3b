package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	refPrefix = "~reference:"
	refSuffix = ":"
	refDigits = 20
	// refTokenLen is the fixed 32-byte width spec §4.I mandates for every
	// reference token: len("~reference:") + 20 digits + len(":").
	refTokenLen = len(refPrefix) + refDigits + len(refSuffix)
)

// collectThreshold / collectInterval gate when NewReference (through
// MaybeCollect) triggers an automatic collection pass (spec §4.I).
const (
	collectThreshold = 5000
	collectIntervalSeconds int64 = 300
)

// Reference is a garbage-collected handle: a finalizer callback plus an
// arbitrary payload value, addressed from script level only by its 32-byte
// string token (spec §4.I).
type Reference struct {
	id        int64
	payload   *Value
	finalizer string // command name prefix invoked at collection time
	tag       string
	collecting bool
}

// Token renders the reference's fixed-width addressable form.
func (r *Reference) Token() string {
	return refPrefix + fmt.Sprintf("%0*d", refDigits, r.id) + refSuffix
}

// parseRefToken reports whether s is a well-formed reference token and, if
// so, the id it encodes.
func parseRefToken(s string) (int64, bool) {
	if len(s) != refTokenLen || !strings.HasPrefix(s, refPrefix) || !strings.HasSuffix(s, refSuffix) {
		return 0, false
	}
	digits := s[len(refPrefix) : len(s)-len(refSuffix)]
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NewReference allocates a reference, wrapping payload and recording which
// command (if any) is invoked as a finalizer at collection time.
func (ip *Interp) NewReference(payload *Value, tag, finalizer string) *Value {
	ip.refNextID++
	ref := &Reference{id: ip.refNextID, payload: payload.IncrRef(), finalizer: finalizer, tag: tag}
	ip.refs.Set(ref.Token(), ref)
	ip.refsSinceGC++
	v := ip.newValue()
	v.kind = KindReference
	v.ref = ref
	// Trigger after v exists and is live: v's own string form embeds the
	// token, so a collection pass run right here still marks this brand new
	// reference reachable through v itself rather than collecting it before
	// the caller ever sees it.
	ip.MaybeCollect(time.Now().Unix())
	return v
}

// GetReference dereferences a reference token to its payload value.
func (ip *Interp) GetReference(token string) (*Value, error) {
	ref, ok := ip.refs.Get(token)
	if !ok {
		return nil, fmt.Errorf("invalid reference %q", token)
	}
	return ref.payload, nil
}

// SetReference replaces a reference's payload in place.
func (ip *Interp) SetReference(token string, payload *Value) error {
	ref, ok := ip.refs.Get(token)
	if !ok {
		return fmt.Errorf("invalid reference %q", token)
	}
	payload.IncrRef()
	ref.payload.DecrRef()
	ref.payload = payload
	return nil
}

// MaybeCollect runs a collection pass if enough references have accumulated
// or enough wall-clock time elapsed, mirroring spec §4.I's collection
// triggers. now is supplied by the caller (NewReference passes
// time.Now().Unix()) so the trigger logic itself stays easy to drive with an
// arbitrary clock in tests.
func (ip *Interp) MaybeCollect(nowUnix int64) int {
	if ip.lastCollectTime == 0 {
		ip.lastCollectTime = nowUnix
	}
	if ip.refsSinceGC < collectThreshold && nowUnix-ip.lastCollectTime < collectIntervalSeconds {
		return 0
	}
	n := ip.Collect()
	ip.lastCollectTime = nowUnix
	return n
}

// Collect performs one mark-sweep pass: every live value whose kind may
// embed a reference token is string-scanned for tokens still reachable;
// unreached references run their finalizer and are removed (spec §4.I).
func (ip *Interp) Collect() int {
	marked := make(map[string]bool, ip.refs.Len())
	for v := range ip.liveValues {
		if !v.kind.mayContainReferences() {
			continue
		}
		s := v.String()
		scanReferenceTokens(s, marked)
	}
	var dead []string
	for _, tok := range ip.refs.Keys() {
		if !marked[tok] {
			dead = append(dead, tok)
		}
	}
	for _, tok := range dead {
		ref, ok := ip.refs.Get(tok)
		if !ok {
			continue
		}
		ip.refs.Delete(tok)
		ip.runFinalizer(ref)
		ref.payload.DecrRef()
	}
	ip.refsSinceGC = 0
	return len(dead)
}

// scanReferenceTokens finds every fixed-width ~reference:...: substring in s
// and marks it reachable (spec §4.I "string-scanning mark-sweep").
func scanReferenceTokens(s string, marked map[string]bool) {
	for i := 0; i+refTokenLen <= len(s); i++ {
		if s[i] != '~' {
			continue
		}
		cand := s[i : i+refTokenLen]
		if _, ok := parseRefToken(cand); ok {
			marked[cand] = true
		}
	}
}

// runFinalizer invokes the registered finalizer command with (token, value)
// and swallows any error it returns, matching spec §4.I and §8 scenario 4:
// "the finalizer `finalize` must be invoked exactly once with arguments
// (token, "hello")".
func (ip *Interp) runFinalizer(ref *Reference) {
	if ref.finalizer == "" || ref.collecting {
		return
	}
	cmd, ok := ip.commands.Get(ref.finalizer)
	if !ok {
		return
	}
	ref.collecting = true
	defer func() { ref.collecting = false }()
	argv := []*Value{
		ip.NewString(ref.finalizer),
		ip.NewString(ref.Token()),
		ip.NewString(ref.payload.String()),
	}
	defer func() {
		for _, a := range argv {
			a.DecrRef()
		}
	}()
	switch cmd.Type {
	case CommandNative:
		_, _, _ = cmd.Native(ip, argv)
	case CommandProc:
		_, _, _ = ip.callProcedure(cmd.Proc, argv)
	}
}

// ReferenceCount reports how many references are currently tracked (tests,
// introspection).
func (ip *Interp) ReferenceCount() int { return ip.refs.Len() }
