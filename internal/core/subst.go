package core

// SubstString performs variable, command and backslash substitution over
// source without treating it as a command script: whitespace and ';' are
// literal (spec §4.C "Subst" dialect, used by dict-sugar keys and the
// "subst" command).
func (ip *Interp) SubstString(source string) (*Value, error) {
	p := newParser(source)
	var out []byte
	litStart := 0
	flush := func(end int) {
		if end > litStart {
			out = append(out, UnescapeBackslashes(p.src[litStart:end])...)
		}
	}
	for !p.eof() {
		switch p.peek() {
		case '$':
			flush(p.pos)
			tok, err := p.parseDollar(p.line)
			if err != nil {
				return nil, err
			}
			v, err := ip.substToken(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, v.String()...)
			litStart = p.pos
		case '[':
			flush(p.pos)
			tok, err := p.parseBracket(p.line)
			if err != nil {
				return nil, err
			}
			v, _, err := ip.EvalString(tok.Text)
			if err != nil {
				return nil, err
			}
			out = append(out, v.String()...)
			v.DecrRef()
			litStart = p.pos
		case '\\':
			p.advance()
			if !p.eof() {
				p.advance()
			}
		default:
			p.advance()
		}
	}
	flush(p.pos)
	v := ip.NewString(string(out))
	return v.IncrRef(), nil
}

// substToken resolves a VAR/DICTSUGAR token produced mid-scan by
// parseDollar; both accessors return borrowed values, so no refcount
// adjustment happens here.
func (ip *Interp) substToken(t Token) (*Value, error) {
	switch t.Type {
	case TokVar:
		return ip.GetVar(ip.frame, t.Name)
	case TokDictSugar:
		keyVal, err := ip.SubstString(t.Key)
		if err != nil {
			return nil, err
		}
		key := keyVal.String()
		keyVal.DecrRef()
		return ip.GetDictSugar(ip.frame, t.Name, key)
	}
	return ip.NewString(""), nil
}
