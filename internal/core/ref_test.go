package core

import "testing"

func TestReferenceTokenRoundTrip(t *testing.T) {
	ip := NewInterp()
	payload := ip.NewString("payload")
	ref := ip.NewReference(payload, "tag", "")
	ref.IncrRef()
	defer ref.DecrRef()

	token := ref.String()
	if _, ok := parseRefToken(token); !ok {
		t.Fatalf("token %q does not parse as a reference token", token)
	}

	got, err := ip.GetReference(token)
	if err != nil {
		t.Fatalf("GetReference: %v", err)
	}
	if got.String() != "payload" {
		t.Errorf("GetReference = %q, want %q", got.String(), "payload")
	}
}

func TestCollectRunsFinalizerOnceWhenUnreachable(t *testing.T) {
	ip := NewInterp()
	var calls int
	ip.RegisterNative("fin", func(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
		calls++
		return ip.NewString(""), OK, nil
	})

	payload := ip.NewString("x")
	ref := ip.NewReference(payload, "tag", "fin")
	ref.IncrRef()

	// Drop every live holder of the token by releasing it without storing
	// it anywhere else; nothing in liveValues now contains the token.
	ref.DecrRef()

	n := ip.Collect()
	if n != 1 {
		t.Errorf("Collect() = %d, want 1", n)
	}
	if calls != 1 {
		t.Errorf("finalizer called %d times, want 1", calls)
	}
	if ip.ReferenceCount() != 0 {
		t.Errorf("ReferenceCount() = %d, want 0", ip.ReferenceCount())
	}
}
