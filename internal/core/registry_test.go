package core

import "testing"

func TestRegisterNativeAndDispatch(t *testing.T) {
	ip := NewInterp()
	ip.RegisterNative("double", func(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
		n, err := argv[1].AsInt()
		if err != nil {
			return nil, ERROR, err
		}
		return ip.NewInt(n * 2), OK, nil
	})

	v, code, err := ip.EvalString("double 21")
	if err != nil || code != OK {
		t.Fatalf("EvalString: code=%v err=%v", code, err)
	}
	if v.String() != "42" {
		t.Errorf("result = %s, want 42", v.String())
	}
}

func TestRenameCommandToEmptyDeletesIt(t *testing.T) {
	ip := NewInterp()
	ip.RegisterNative("noop", func(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
		return ip.NewString(""), OK, nil
	})
	if err := ip.RenameCommand("noop", ""); err != nil {
		t.Fatalf("RenameCommand: %v", err)
	}
	if _, ok := ip.LookupCommand("noop", nil); ok {
		t.Error("noop still resolves after being renamed to \"\"")
	}
}

func TestCommandEpochInvalidatesCache(t *testing.T) {
	ip := NewInterp()
	ip.RegisterNative("x", func(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
		return ip.NewString("first"), OK, nil
	})
	var cc cmdCache
	cmd, ok := ip.LookupCommand("x", &cc)
	if !ok || cmd.Native == nil {
		t.Fatalf("initial lookup failed")
	}
	ip.RegisterNative("x", func(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
		return ip.NewString("second"), OK, nil
	})
	cmd2, ok := ip.LookupCommand("x", &cc)
	if !ok {
		t.Fatalf("second lookup failed")
	}
	v, _, err := cmd2.Native(ip, []*Value{ip.NewString("x")})
	if err != nil || v.String() != "second" {
		t.Errorf("cache served stale command: v=%v err=%v", v, err)
	}
}
