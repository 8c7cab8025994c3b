package core

import "testing"

func TestValueRefcountAndFreeList(t *testing.T) {
	ip := NewInterp()

	v := ip.NewString("hello")
	v.IncrRef()
	if v.RefCount() != 1 {
		t.Fatalf("RefCount() = %d, want 1", v.RefCount())
	}
	before := ip.FreeListLen()
	v.DecrRef()
	if ip.FreeListLen() != before+1 {
		t.Errorf("FreeListLen() = %d, want %d", ip.FreeListLen(), before+1)
	}
}

func TestValueShimmersStringToInt(t *testing.T) {
	ip := NewInterp()
	v := ip.NewString("42")
	v.IncrRef()
	defer v.DecrRef()

	n, err := v.AsInt()
	if err != nil {
		t.Fatalf("AsInt: %v", err)
	}
	if n != 42 {
		t.Errorf("AsInt() = %d, want 42", n)
	}
	if v.String() != "42" {
		t.Errorf("String() = %q, want %q", v.String(), "42")
	}
}

func TestDictOrderedKeys(t *testing.T) {
	ip := NewInterp()
	d := ip.NewDict()
	d.IncrRef()
	defer d.DecrRef()

	dv, err := d.AsDict()
	if err != nil {
		t.Fatalf("AsDict: %v", err)
	}
	dv.Set("z", ip.NewString("1"))
	dv.Set("a", ip.NewString("2"))
	dv.Set("z", ip.NewString("3")) // re-set shouldn't move it in Order

	if got := dv.Keys(); len(got) != 2 || got[0] != "z" || got[1] != "a" {
		t.Errorf("Keys() = %v, want [z a]", got)
	}
}
