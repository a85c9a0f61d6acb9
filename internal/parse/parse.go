// Package parse implements the praise command grammar.
//
//	expression    = bot_user WS template_name WS recipient (WS message)? WS?
//	message       = ("for" WS)? text
//	bot_user      = user_ref
//	recipient     = user_ref | channel_ref
//	IDENT         = (letter | digit | "_" | "-" | ".")+
//	user_ref      = "<@" IDENT ("|" LABEL)? ">" | "@" IDENT
//	channel_ref   = "<#" IDENT ("|" LABEL)? ">" | "#" IDENT
//	template_name = unquoted token | "double quoted" | 'single quoted'
//	text          = reason " with " KEY "=" VALUE | rest of line
//
// Alternatives are tried in the order written and a rule never backtracks
// into a rule it already completed.
package parse

import (
	"fmt"
	"strings"
)

// Error reports input that does not match the grammar.
type Error struct {
	Input    string
	Offset   int    // byte offset of the failure
	Expected string // what the grammar wanted at Offset
}

func (e *Error) Error() string {
	found := "end of input"
	if e.Offset < len(e.Input) {
		rest := e.Input[e.Offset:]
		if len(rest) > 16 {
			rest = rest[:16] + "..."
		}
		found = fmt.Sprintf("%q", rest)
	}
	return fmt.Sprintf("parse praise: expected %s at offset %d, found %s", e.Expected, e.Offset, found)
}

// Parse parses one praise command.
func Parse(text string) (*Expression, error) {
	p := &parser{inp: newInput(text)}
	return p.parseExpression()
}

type parser struct {
	inp *input
}

func (p *parser) fail(expected string) error {
	return &Error{Input: p.inp.src, Offset: p.inp.pos, Expected: expected}
}

func (p *parser) expectSpace(after string) error {
	if !p.inp.skipSpace() {
		return p.fail("whitespace after " + after)
	}
	return nil
}

func (p *parser) parseExpression() (*Expression, error) {
	bot, err := p.parseRef(false)
	if err != nil {
		return nil, err
	}
	if err := p.expectSpace("bot user"); err != nil {
		return nil, err
	}

	name, err := p.parseTemplateName()
	if err != nil {
		return nil, err
	}
	if err := p.expectSpace("template name"); err != nil {
		return nil, err
	}

	recipient, err := p.parseRef(true)
	if err != nil {
		return nil, err
	}

	expr := &Expression{
		BotUser:      bot.(*UserRef),
		TemplateName: name,
		Recipient:    recipient,
	}

	if p.inp.ch == eos {
		return expr, nil
	}
	if err := p.expectSpace("recipient"); err != nil {
		return nil, err
	}
	if p.inp.ch == eos {
		return expr, nil
	}

	expr.Message = p.parseMessage()

	p.inp.skipSpace()
	if p.inp.ch != eos {
		return nil, p.fail("end of input")
	}
	return expr, nil
}

func (p *parser) parseRef(allowChannel bool) (Ref, error) {
	expected := "user reference (@name or <@id>)"
	if allowChannel {
		expected = "user or channel reference (@name, #channel, <@id> or <#id>)"
	}

	inp := p.inp
	start := inp.pos
	wrapped := false
	if inp.ch == '<' {
		wrapped = true
		inp.next()
	}

	sigil := inp.ch
	if sigil != '@' && !(allowChannel && sigil == '#') {
		inp.setPos(start)
		return nil, p.fail(expected)
	}
	inp.next()

	identStart := inp.pos
	for isIdentRune(inp.ch) {
		inp.next()
	}
	if inp.pos == identStart {
		return nil, p.fail("identifier")
	}
	ident := inp.src[identStart:inp.pos]

	label := ""
	if wrapped {
		if inp.ch == '|' {
			inp.next()
			labelStart := inp.pos
			for inp.ch != '>' && inp.ch != eos && !isSpace(inp.ch) {
				inp.next()
			}
			label = inp.src[labelStart:inp.pos]
		}
		if inp.ch != '>' {
			return nil, p.fail(`">"`)
		}
		inp.next()
	}

	raw := inp.src[start:inp.pos]
	if sigil == '#' {
		return &ChannelRef{IsWrapped: wrapped, ID: ident, Label: label, Raw: raw}, nil
	}
	return &UserRef{IsWrapped: wrapped, ID: ident, Label: label, Raw: raw}, nil
}

func (p *parser) parseTemplateName() (string, error) {
	inp := p.inp
	if inp.ch == '"' || inp.ch == '\'' {
		return p.parseQuoted()
	}

	start := inp.pos
	for inp.ch != eos && !isSpace(inp.ch) && inp.ch != '"' && inp.ch != '=' {
		inp.next()
	}
	if inp.pos == start {
		return "", p.fail("template name")
	}
	return inp.src[start:inp.pos], nil
}

func (p *parser) parseQuoted() (string, error) {
	inp := p.inp
	quote := inp.ch
	inp.next()

	var sb strings.Builder
	for {
		switch inp.ch {
		case eos, '=':
			return "", p.fail(fmt.Sprintf("closing %c", quote))
		case '\\':
			if inp.next() == eos {
				return "", p.fail("escaped character")
			}
			sb.WriteRune(inp.ch)
			inp.next()
		case quote:
			inp.next()
			if sb.Len() == 0 {
				return "", p.fail("non-empty template name")
			}
			return sb.String(), nil
		default:
			sb.WriteRune(inp.ch)
			inp.next()
		}
	}
}

// parseMessage consumes the reason clause up to the end of the line. It
// cannot fail: anything left on the line is reason text.
func (p *parser) parseMessage() *Message {
	inp := p.inp
	start := inp.pos
	msg := &Message{}

	if inp.hasPrefix("for") {
		inp.setPos(start + len("for"))
		if inp.skipSpace() && !strings.ContainsAny(inp.src[start:inp.pos], "\r\n") && inp.pos < inp.lineEnd() {
			msg.HasFor = true
		} else {
			inp.setPos(start)
		}
	}

	end := inp.lineEnd()
	rest := inp.src[inp.pos:end]
	if reason, key, value, ok := splitVariable(rest); ok {
		msg.Text = &ReasonWithVariable{Text: reason, Key: key, Value: value}
		msg.Raw = inp.src[start : inp.pos+len(reason)]
	} else {
		msg.Text = &Reason{Text: rest}
		msg.Raw = inp.src[start:end]
	}

	inp.setPos(end)
	return msg
}

const withSeparator = " with "

// splitVariable finds the first " with " whose remainder is a single
// key=value assignment. The reason before it must not be empty.
func splitVariable(rest string) (reason, key, value string, ok bool) {
	offset := 0
	for {
		idx := strings.Index(rest[offset:], withSeparator)
		if idx < 0 {
			return "", "", "", false
		}
		at := offset + idx
		if at > 0 {
			if key, value, ok := splitAssignment(rest[at+len(withSeparator):]); ok {
				return rest[:at], key, value, true
			}
		}
		offset = at + 1
	}
}

func splitAssignment(s string) (key, value string, ok bool) {
	key, value, found := strings.Cut(s, "=")
	if !found || key == "" || strings.IndexFunc(key, isSpace) >= 0 {
		return "", "", false
	}
	return key, unquote(value), true
}

// unquote strips one pair of matching surrounding quotes and resolves
// backslash escapes inside them.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := s[0]
	if (quote != '"' && quote != '\'') || s[len(s)-1] != quote {
		return s
	}

	inner := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
		}
		sb.WriteByte(inner[i])
	}
	return sb.String()
}
