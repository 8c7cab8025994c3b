package core

import "fmt"

// NativeFunc implements a command written in Go. argv[0] is the command
// name; the function returns the result value and a return code (spec §4.F).
type NativeFunc func(ip *Interp, argv []*Value) (*Value, ReturnCode, error)

// CommandType distinguishes a Go-native command from a user-defined
// procedure (spec §4.F).
type CommandType int

const (
	CommandNative CommandType = iota
	CommandProc
)

// Command is one entry in the registry: either a native handler or a
// compiled procedure (params + body).
type Command struct {
	Name    string
	Type    CommandType
	Native  NativeFunc
	Proc    *Procedure
	epoch   int
}

// Procedure is a user-defined command created by "proc" (spec §4.F).
type Procedure struct {
	Name     string
	Params   []ProcParam
	HasArgs  bool
	Body     *Value // KindScript
	SrcFile  string
	SrcLine  int
}

// ProcParam is one formal parameter, optionally with a default value.
type ProcParam struct {
	Name    string
	Default *Value
	HasDef  bool
}

// cmdCache is the per-token cache a compiled script's CMD tokens carry so
// repeated evaluations skip the registry lookup unless the epoch has moved
// (spec §4.F "registry epoch").
type cmdCache struct {
	name  string
	epoch int
	cmd   *Command
}

// builtinRegistrars collects the per-file init-time registration hooks from
// every commands_*.go file; NewInterp runs them once in registerBuiltins.
var builtinRegistrars []func(*Interp)

func registerBuiltins(ip *Interp) {
	for _, reg := range builtinRegistrars {
		reg(ip)
	}
}

// RegisterNative installs a Go-implemented command, bumping the registry
// epoch so any cached command lookups are invalidated (spec §4.F).
func (ip *Interp) RegisterNative(name string, fn NativeFunc) {
	ip.commandEpoch++
	ip.commands.Set(name, &Command{Name: name, Type: CommandNative, Native: fn, epoch: ip.commandEpoch})
}

// DefineProc installs or replaces a user procedure.
func (ip *Interp) DefineProc(p *Procedure) {
	ip.commandEpoch++
	ip.commands.Set(p.Name, &Command{Name: p.Name, Type: CommandProc, Proc: p, epoch: ip.commandEpoch})
}

// RenameCommand renames or (if newName is "") deletes a command.
func (ip *Interp) RenameCommand(oldName, newName string) error {
	cmd, ok := ip.commands.Get(oldName)
	if !ok {
		return fmt.Errorf("can't rename %q: command doesn't exist", oldName)
	}
	ip.commandEpoch++
	ip.commands.Delete(oldName)
	if newName == "" {
		return nil
	}
	cmd.Name = newName
	cmd.epoch = ip.commandEpoch
	ip.commands.Set(newName, cmd)
	return nil
}

// LookupCommand resolves name through cache cc when its epoch still matches
// the registry; otherwise it performs a fresh lookup and refreshes cc.
func (ip *Interp) LookupCommand(name string, cc *cmdCache) (*Command, bool) {
	if cc != nil && cc.name == name && cc.epoch == ip.commandEpoch {
		return cc.cmd, cc.cmd != nil
	}
	cmd, ok := ip.commands.Get(name)
	if cc != nil {
		cc.name = name
		cc.epoch = ip.commandEpoch
		if ok {
			cc.cmd = cmd
		} else {
			cc.cmd = nil
		}
	}
	return cmd, ok
}

// CommandNames lists every currently-registered command name.
func (ip *Interp) CommandNames() []string { return ip.commands.Keys() }
