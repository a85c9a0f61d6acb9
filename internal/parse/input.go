package parse

import (
	"unicode"
	"unicode/utf8"
)

// eos marks the end of the source.
const eos = rune(-1)

// input is a rune cursor over the command text.
type input struct {
	src     string
	ch      rune // current character
	pos     int  // byte offset of ch
	readPos int  // byte offset after ch
}

func newInput(src string) *input {
	inp := &input{src: src}
	inp.next()
	return inp
}

// next advances to the following rune and returns it.
func (inp *input) next() rune {
	if inp.readPos >= len(inp.src) {
		inp.pos = len(inp.src)
		inp.ch = eos
		return eos
	}
	inp.pos = inp.readPos
	r, w := rune(inp.src[inp.readPos]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRuneInString(inp.src[inp.readPos:])
	}
	inp.readPos += w
	inp.ch = r
	return r
}

// setPos moves the cursor to an earlier byte offset.
func (inp *input) setPos(pos int) {
	inp.readPos = pos
	inp.next()
}

// skipSpace consumes a whitespace run and reports whether it was non-empty.
func (inp *input) skipSpace() bool {
	start := inp.pos
	for isSpace(inp.ch) {
		inp.next()
	}
	return inp.pos > start
}

// hasPrefix reports whether the unread source starts with s at the cursor.
func (inp *input) hasPrefix(s string) bool {
	return len(inp.src)-inp.pos >= len(s) && inp.src[inp.pos:inp.pos+len(s)] == s
}

// lineEnd returns the offset of the next line break, or the source length.
func (inp *input) lineEnd() int {
	for i := inp.pos; i < len(inp.src); i++ {
		if inp.src[i] == '\n' || inp.src[i] == '\r' {
			return i
		}
	}
	return len(inp.src)
}

func isSpace(ch rune) bool {
	return ch != eos && unicode.IsSpace(ch)
}

func isIdentRune(ch rune) bool {
	return ch == '_' || ch == '-' || ch == '.' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
