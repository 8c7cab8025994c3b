package core

import "fmt"

// scriptWord is one command-line word, decomposed into the sub-tokens the
// parser produced (STR/ESC/VAR/DICTSUGAR/CMD) plus whether it used the
// "{*}arg" expansion marker (spec §4.C).
type scriptWord struct {
	parts  []Token
	expand bool
}

// scriptCommand is one semicolon/newline-delimited command within a Script.
type scriptCommand struct {
	words []scriptWord
	line  int

	// cmdc caches this command position's argv[0]-to-Command resolution
	// (spec §4.G registry epoch), so repeated evaluation of a loop body
	// skips the registry lookup unless a command was defined/renamed since.
	// Allocated lazily by commandNameValue the first time the leading word
	// is a plain literal; left nil for a computed/substituted command name.
	cmdc *cmdCache

	// cmdVal is the persistent KindCommand value standing in for a literal
	// command-name word (spec §4.F "command" internal rep), reused across
	// repeated evaluation instead of rebuilding a plain string each time.
	cmdVal *Value
}

// Script is the compiled form of a block of source text: tokenized once,
// evaluated many times (spec §4.C "compiled script cache"). Procedure bodies
// share one Script across every call.
type Script struct {
	source   string
	commands []scriptCommand
	inUse    int
}

// CompileScript tokenizes source and groups the tokens into commands/words,
// collapsing adjacent SEP/EOL tokens and dropping empty ESC tokens as it
// goes (spec §4.C "build time" normalization).
func CompileScript(source string) (*Script, error) {
	toks, err := ParseScript(source)
	if err != nil {
		return nil, err
	}
	scr := &Script{source: source}
	var cur scriptCommand
	var word scriptWord
	flushWord := func() {
		if len(word.parts) == 0 {
			return
		}
		if len(word.parts) == 1 && word.parts[0].Type == TokEsc && word.parts[0].Text == "" {
			word = scriptWord{}
			return
		}
		if len(word.parts) > 1 && word.parts[0].Type == TokStr && word.parts[0].Text == "*" {
			word.expand = true
			word.parts = word.parts[1:]
		}
		cur.words = append(cur.words, word)
		word = scriptWord{}
	}
	flushCommand := func() {
		flushWord()
		if len(cur.words) > 0 {
			scr.commands = append(scr.commands, cur)
		}
		cur = scriptCommand{}
	}
	lastWasSep := true
	for _, t := range toks {
		switch t.Type {
		case TokSep:
			flushWord()
			lastWasSep = true
		case TokEol:
			flushCommand()
			lastWasSep = true
		default:
			if lastWasSep && len(word.parts) == 0 {
				cur.line = t.Line
			}
			word.parts = append(word.parts, t)
			lastWasSep = false
		}
	}
	flushCommand()
	return scr, nil
}

// GetOrCompileScript returns the cached Script for source, compiling it on
// first use (spec §4.C). Callers must guard concurrent access themselves;
// per spec one Interp is used from one goroutine at a time.
func (ip *Interp) GetOrCompileScript(source string) (*Script, error) {
	if scr, ok := ip.scriptCache[source]; ok {
		return scr, nil
	}
	scr, err := CompileScript(source)
	if err != nil {
		return nil, err
	}
	ip.scriptCache[source] = scr
	return scr, nil
}

// NewScriptValue wraps source as a KindScript value backed by its compiled
// form, sharing the cache entry across repeated evaluation (e.g. loop
// bodies, procedure bodies).
func (ip *Interp) NewScriptValue(source string) (*Value, error) {
	scr, err := ip.GetOrCompileScript(source)
	if err != nil {
		return nil, err
	}
	v := ip.newValue()
	v.kind = KindScript
	v.scr = scr
	v.str = source
	v.strValid = true
	return v, nil
}

func (scr *Script) String() string { return fmt.Sprintf("script(%d commands)", len(scr.commands)) }
