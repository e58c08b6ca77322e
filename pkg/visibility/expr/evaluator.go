package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-geoform/pkg/visibility"
)

// Evaluator is a small, dependency-free visibility evaluator.
//
// Supported forms:
//   - truthiness: `limit_by_postal_code`, `!limit_by_postal_code`
//   - comparisons: `limit_by_postal_code == true`, `country_code != "US"`
//   - composition with `&&`, `||` and parentheses
//
// Identifiers resolve against visibility.Context.Values (dotted paths walk
// nested maps) or visibility.Context.Extras via the `extras.` prefix.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	tokens, err := lex(rule)
	if err != nil {
		return false, err
	}
	p := &parser{tokens: tokens}
	node, err := p.or()
	if err != nil {
		return false, err
	}
	if !p.done() {
		return false, fmt.Errorf("visibility/expr: unexpected token %q", p.peek().text)
	}
	return node.eval(ctx)
}

type kind int

const (
	kIdent kind = iota
	kString
	kNumber
	kBool
	kNull
	kEq
	kNeq
	kAnd
	kOr
	kNot
	kOpen
	kClose
)

type tok struct {
	kind kind
	text string
}

func lex(input string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			out = append(out, tok{kOpen, "("})
			i++
		case ch == ')':
			out = append(out, tok{kClose, ")"})
			i++
		case strings.HasPrefix(input[i:], "=="):
			out = append(out, tok{kEq, "=="})
			i += 2
		case strings.HasPrefix(input[i:], "!="):
			out = append(out, tok{kNeq, "!="})
			i += 2
		case strings.HasPrefix(input[i:], "&&"):
			out = append(out, tok{kAnd, "&&"})
			i += 2
		case strings.HasPrefix(input[i:], "||"):
			out = append(out, tok{kOr, "||"})
			i += 2
		case ch == '!':
			out = append(out, tok{kNot, "!"})
			i++
		case ch == '=' || ch == '&' || ch == '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q at offset %d", ch, i)
		case ch == '"' || ch == '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			raw := input[i : end+1]
			if ch == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			out = append(out, tok{kString, value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|\"'", rune(input[i])) {
				i++
			}
			out = append(out, classify(input[start:i]))
		}
	}
	return out, nil
}

func closingQuote(input string, start int) int {
	quote := input[start]
	for i := start + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func classify(word string) tok {
	switch strings.ToLower(word) {
	case "true", "false":
		return tok{kBool, strings.ToLower(word)}
	case "null", "nil":
		return tok{kNull, "null"}
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return tok{kNumber, word}
	}
	return tok{kIdent, word}
}

type node interface {
	eval(ctx visibility.Context) (bool, error)
}

type parser struct {
	tokens []tok
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() tok {
	if p.done() {
		return tok{}
	}
	return p.tokens[p.pos]
}

func (p *parser) accept(k kind) bool {
	if p.done() || p.tokens[p.pos].kind != k {
		return false
	}
	p.pos++
	return true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(kOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = binary{op: kOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(kAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binary{op: kAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(kNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negate{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(kOpen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(kClose) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}
	if p.done() {
		return nil, errors.New("visibility/expr: empty expression")
	}
	ident := p.peek()
	if ident.kind != kIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", ident.text)
	}
	p.pos++

	for _, op := range []kind{kEq, kNeq} {
		if !p.accept(op) {
			continue
		}
		if p.done() {
			return nil, errors.New("visibility/expr: missing literal")
		}
		lit := p.peek()
		p.pos++
		switch lit.kind {
		case kString, kNumber, kBool, kNull:
		case kIdent:
			// bare words compare as strings
			lit.kind = kString
		default:
			return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.text)
		}
		return compare{ident: ident.text, op: op, lit: lit}, nil
	}
	return truthy{ident: ident.text}, nil
}

type binary struct {
	op          kind
	left, right node
}

func (n binary) eval(ctx visibility.Context) (bool, error) {
	left, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	if n.op == kOr && left {
		return true, nil
	}
	if n.op == kAnd && !left {
		return false, nil
	}
	return n.right.eval(ctx)
}

type negate struct{ inner node }

func (n negate) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

type truthy struct{ ident string }

func (n truthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.ident)
	if !ok {
		return false, nil
	}
	return isTruthy(value), nil
}

type compare struct {
	ident string
	op    kind
	lit   tok
}

func (n compare) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)

	var equal bool
	switch n.lit.kind {
	case kNull:
		equal = value == nil
	case kBool:
		equal = asBool(value) == (n.lit.text == "true")
	case kNumber:
		want, err := strconv.ParseFloat(n.lit.text, 64)
		if err != nil {
			return false, fmt.Errorf("visibility/expr: invalid number literal %q", n.lit.text)
		}
		got, _ := asNumber(value)
		equal = got == want
	default:
		equal = asString(value) == n.lit.text
	}

	if n.op == kNeq {
		return !equal, nil
	}
	return equal, nil
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupPath(ctx.Extras, key[len("extras."):])
	}
	return lookupPath(ctx.Values, key)
}

func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed != "" && trimmed != "0"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func asBool(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return isTruthy(value)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
