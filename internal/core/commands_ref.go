package core

import "fmt"

func init() {
	builtinRegistrars = append(builtinRegistrars, registerRefCommands)
}

func registerRefCommands(ip *Interp) {
	ip.RegisterNative("ref", cmdRef)
	ip.RegisterNative("getref", cmdGetref)
	ip.RegisterNative("setref", cmdSetref)
	ip.RegisterNative("collect", cmdCollect)
}

// cmdRef implements "ref value ?finalizer?" (spec §4.I, §8 scenario 4:
// `ref hello finalize` creates a reference whose collection invokes
// "finalize"). A 3-argument form "ref value tag finalizer" is also accepted,
// carrying an extra descriptive tag that has no effect on the core contract.
func cmdRef(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) < 2 || len(argv) > 4 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"ref value ?finalizer?\"")
	}
	tag := ""
	finalizer := ""
	switch len(argv) {
	case 3:
		finalizer = argv[2].String()
	case 4:
		tag = argv[2].String()
		finalizer = argv[3].String()
	}
	return ip.NewReference(argv[1], tag, finalizer), OK, nil
}

func cmdGetref(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 2 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"getref reference\"")
	}
	v, err := ip.GetReference(argv[1].String())
	if err != nil {
		return nil, ERROR, err
	}
	return v, OK, nil
}

func cmdSetref(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	if len(argv) != 3 {
		return nil, ERROR, fmt.Errorf("wrong # args: should be \"setref reference value\"")
	}
	if err := ip.SetReference(argv[1].String(), argv[2]); err != nil {
		return nil, ERROR, err
	}
	return argv[2], OK, nil
}

func cmdCollect(ip *Interp, argv []*Value) (*Value, ReturnCode, error) {
	n := ip.Collect()
	return ip.NewInt(int64(n)), OK, nil
}
