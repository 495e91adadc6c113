package schemafile

import (
	"fmt"
	"strings"
	"unicode"

	gomodel "github.com/reoring/gomodel"
	g "github.com/reoring/gomodel/dsl"
)

// parseType reads an annotation such as "list[int | None]",
// "tuple[float, ...]" or "Address | None". The returned flag reports a
// top-level "| None".
func parseType(expr string, models map[string]*gomodel.Schema) (g.TypeBuilder, bool, error) {
	p := &typeParser{src: expr, models: models}
	p.lex()
	t, nullable, err := p.union()
	if err != nil {
		return g.TypeBuilder{}, false, fmt.Errorf("type %q: %w", expr, err)
	}
	if !p.done() {
		return g.TypeBuilder{}, false, fmt.Errorf("type %q: unexpected %q", expr, p.peek())
	}
	return t, nullable, nil
}

type typeParser struct {
	src    string
	toks   []string
	pos    int
	models map[string]*gomodel.Schema
}

func (p *typeParser) lex() {
	s := p.src
	for i := 0; i < len(s); {
		switch c := rune(s[i]); {
		case unicode.IsSpace(c):
			i++
		case strings.HasPrefix(s[i:], "..."):
			p.toks = append(p.toks, "...")
			i += 3
		case strings.ContainsRune("[],|", c):
			p.toks = append(p.toks, string(c))
			i++
		default:
			j := i
			for j < len(s) && !strings.ContainsRune("[],| \t\n", rune(s[j])) {
				j++
			}
			p.toks = append(p.toks, s[i:j])
			i = j
		}
	}
}

func (p *typeParser) done() bool { return p.pos >= len(p.toks) }

func (p *typeParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *typeParser) expect(tok string) error {
	if got := p.next(); got != tok {
		if got == "" {
			return fmt.Errorf("expected %q, got end of input", tok)
		}
		return fmt.Errorf("expected %q, got %q", tok, got)
	}
	return nil
}

// union := primary ("|" "None")?
func (p *typeParser) union() (g.TypeBuilder, bool, error) {
	t, err := p.primary()
	if err != nil {
		return t, false, err
	}
	if p.peek() != "|" {
		return t, false, nil
	}
	p.next()
	if err := p.expect("None"); err != nil {
		return t, false, err
	}
	return t, true, nil
}

// elem parses a nested type, folding "| None" into the element.
func (p *typeParser) elem() (g.TypeBuilder, error) {
	t, nullable, err := p.union()
	if err != nil {
		return t, err
	}
	if nullable {
		t = t.Nullable()
	}
	return t, nil
}

func (p *typeParser) primary() (g.TypeBuilder, error) {
	name := p.next()
	switch name {
	case "":
		return g.TypeBuilder{}, fmt.Errorf("missing type")
	case "str":
		return g.Str(), nil
	case "int":
		return g.Int(), nil
	case "float":
		return g.Float(), nil
	case "bool":
		return g.Bool(), nil
	case "any", "Any":
		return g.Any(), nil
	case "list", "tuple", "dict":
		if p.peek() != "[" {
			return p.bare(name), nil
		}
		p.next()
		return p.generic(name)
	}
	if s, ok := p.models[name]; ok {
		return g.Nested(s), nil
	}
	return g.TypeBuilder{}, fmt.Errorf("unknown type %q", name)
}

func (p *typeParser) bare(name string) g.TypeBuilder {
	switch name {
	case "list":
		return g.List(g.Any())
	case "tuple":
		return g.TupleOf(g.Any())
	}
	return g.Dict(g.Any())
}

// generic parses the bracketed arguments after "[" up to and including "]".
func (p *typeParser) generic(name string) (g.TypeBuilder, error) {
	switch name {
	case "list":
		el, err := p.elem()
		if err != nil {
			return el, err
		}
		return g.List(el), p.expect("]")
	case "dict":
		if err := p.expect("str"); err != nil {
			return g.TypeBuilder{}, fmt.Errorf("dict keys must be str: %w", err)
		}
		if err := p.expect(","); err != nil {
			return g.TypeBuilder{}, err
		}
		val, err := p.elem()
		if err != nil {
			return val, err
		}
		return g.Dict(val), p.expect("]")
	}
	var items []g.TypeBuilder
	for {
		it, err := p.elem()
		if err != nil {
			return it, err
		}
		items = append(items, it)
		switch p.next() {
		case "]":
			return g.Tuple(items...), nil
		case ",":
			if p.peek() != "..." {
				continue
			}
			p.next()
			if len(items) != 1 {
				return g.TypeBuilder{}, fmt.Errorf("variadic tuple takes exactly one element type")
			}
			return g.TupleOf(items[0]), p.expect("]")
		default:
			return g.TypeBuilder{}, fmt.Errorf("malformed tuple")
		}
	}
}
