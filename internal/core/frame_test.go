package core

import "testing"

func TestLinkVarReadsThroughToTarget(t *testing.T) {
	ip := NewInterp()
	ip.SetVar(ip.global, "shared", ip.NewInt(1))

	child := ip.PushFrame("p")
	if err := ip.LinkVar(child, "local", ip.global, "shared"); err != nil {
		t.Fatalf("LinkVar: %v", err)
	}

	v, err := ip.GetVar(child, "local")
	if err != nil {
		t.Fatalf("GetVar: %v", err)
	}
	if v.String() != "1" {
		t.Errorf("GetVar(local) = %s, want 1", v.String())
	}

	ip.SetVar(child, "local", ip.NewInt(2))
	v2, err := ip.GetVar(ip.global, "shared")
	if err != nil {
		t.Fatalf("GetVar(shared): %v", err)
	}
	if v2.String() != "2" {
		t.Errorf("writing through link: shared = %s, want 2", v2.String())
	}
	ip.PopFrame()
}

func TestLinkVarRejectsSelfReference(t *testing.T) {
	ip := NewInterp()
	fr := ip.PushFrame("p")
	if err := ip.LinkVar(fr, "x", fr, "x"); err == nil {
		t.Error("expected direct self-reference to be rejected")
	}
	ip.PopFrame()
}

func TestUnsetVar(t *testing.T) {
	ip := NewInterp()
	ip.SetVar(ip.global, "x", ip.NewInt(1))
	if !ip.UnsetVar(ip.global, "x") {
		t.Error("UnsetVar(x) = false, want true")
	}
	if ip.UnsetVar(ip.global, "x") {
		t.Error("UnsetVar(x) second call = true, want false")
	}
}
