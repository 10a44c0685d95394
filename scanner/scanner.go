// Package scanner converts shading-DSL source text into a finite token
// stream terminated by token.SourceEnd.
package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hecl-lang/hecl/diag"
	"github.com/hecl-lang/hecl/token"
)

// swizzleLetters maps an accepted swizzle-mask character to its component
// index: x|r=0, y|g=1, z|b=2, w|a=3.
var swizzleLetters = map[byte]int8{
	'x': 0, 'r': 0,
	'y': 1, 'g': 1,
	'z': 2, 'b': 2,
	'w': 3, 'a': 3,
}

// Scanner produces tokens from source text, tracking 1-indexed line/column
// position. A Scanner is not safe for concurrent use; distinct instances
// are independent.
type Scanner struct {
	diag *diag.Diagnostics

	source string
	pos    int // byte offset
	line   int
	col    int

	parenStack []token.Kind // FunctionStart | EvalGroupStart
	begun      bool
	done       bool

	// expectOperand mirrors the lexer's own operand/operator tracking, but
	// flattened across nesting: it only needs to know whether the token
	// just emitted produced a value (operand position closed) or not
	// (operand position open), which is enough to disambiguate a leading
	// sign glyph from a binary +/- operator.
	expectOperand bool
}

// New creates a Scanner that reports lexical errors through d.
func New(d *diag.Diagnostics) *Scanner {
	return &Scanner{diag: d}
}

// Reset rewinds the scanner to (line=1, col=1) and sets the source text to
// scan. A Scanner may be reset and reused across compiles.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.pos = 0
	s.line = 1
	s.col = 1
	s.parenStack = s.parenStack[:0]
	s.begun = false
	s.done = false
	s.expectOperand = true
}

// CurrentLocation returns the scanner's current position.
func (s *Scanner) CurrentLocation() token.Location {
	return token.Location{Line: s.line, Column: s.col}
}

// NextToken yields the next token. Exactly one SourceBegin is emitted
// first; after SourceEnd, repeated calls yield SourceEnd indefinitely.
func (s *Scanner) NextToken() (token.Token, error) {
	tok, err := s.scanToken()
	if err != nil {
		return tok, err
	}
	s.expectOperand = expectOperandAfter(tok.Kind)
	return tok, nil
}

// expectOperandAfter reports whether a token of kind k leaves the operand
// position open, i.e. whether a following '+'/'-' can only be a sign.
func expectOperandAfter(k token.Kind) bool {
	switch k {
	case token.SourceBegin, token.ArithmeticOp, token.EvalGroupStart, token.FunctionStart, token.FunctionArgDelim:
		return true
	default:
		return false
	}
}

func (s *Scanner) scanToken() (token.Token, error) {
	if !s.begun {
		s.begun = true
		return token.Token{Kind: token.SourceBegin, Location: s.CurrentLocation()}, nil
	}
	if s.done {
		return token.Token{Kind: token.SourceEnd, Location: s.CurrentLocation()}, nil
	}

	if err := s.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	if s.atEnd() {
		s.done = true
		if len(s.parenStack) > 0 {
			return token.Token{}, s.diag.ReportScannerErr(s.CurrentLocation(),
				"unexpected end of source: %d unclosed group(s)", len(s.parenStack))
		}
		return token.Token{Kind: token.SourceEnd, Location: s.CurrentLocation()}, nil
	}

	r := s.peek()
	loc := s.CurrentLocation()

	switch {
	case (r == '+' || r == '-') && s.expectOperand && isDigit(s.peekAt(1)):
		return s.scanNumber(loc)
	case r == '+' || r == '-' || r == '*' || r == '/':
		s.advance()
		return token.Token{Kind: token.ArithmeticOp, Location: loc, Text: string(r)}, nil
	case r == '(':
		return s.scanOpenParen(loc)
	case r == ')':
		return s.scanCloseParen(loc)
	case r == ',':
		return s.scanComma(loc)
	case r == '.':
		return s.scanSwizzle(loc)
	case isDigit(r):
		return s.scanNumber(loc)
	case isIdentStart(r):
		return s.scanIdentOrFunctionStart(loc)
	default:
		s.advance()
		return token.Token{}, s.diag.ReportScannerErr(loc, "unexpected character %q", r)
	}
}

func (s *Scanner) skipWhitespaceAndComments() error {
	for !s.atEnd() {
		r := s.peek()
		switch {
		case r == '\n':
			s.advance()
			s.line++
			s.col = 1
		case r == ' ' || r == '\t' || r == '\r':
			s.advance()
		case r == '#':
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) scanOpenParen(loc token.Location) (token.Token, error) {
	s.advance()
	s.parenStack = append(s.parenStack, token.EvalGroupStart)
	return token.Token{Kind: token.EvalGroupStart, Location: loc, Text: "("}, nil
}

func (s *Scanner) scanCloseParen(loc token.Location) (token.Token, error) {
	if len(s.parenStack) == 0 {
		s.advance()
		return token.Token{}, s.diag.ReportScannerErr(loc, "unbalanced ')': no open group")
	}
	top := s.parenStack[len(s.parenStack)-1]
	s.parenStack = s.parenStack[:len(s.parenStack)-1]
	s.advance()
	if top == token.FunctionStart {
		return token.Token{Kind: token.FunctionEnd, Location: loc, Text: ")"}, nil
	}
	return token.Token{Kind: token.EvalGroupEnd, Location: loc, Text: ")"}, nil
}

func (s *Scanner) scanComma(loc token.Location) (token.Token, error) {
	if len(s.parenStack) == 0 || s.parenStack[len(s.parenStack)-1] != token.FunctionStart {
		s.advance()
		return token.Token{}, s.diag.ReportScannerErr(loc, "unexpected ',' outside function arguments")
	}
	s.advance()
	return token.Token{Kind: token.FunctionArgDelim, Location: loc, Text: ","}, nil
}

// scanSwizzle scans a '.' followed by 1-4 characters from {x,y,z,w,r,g,b,a}.
func (s *Scanner) scanSwizzle(loc token.Location) (token.Token, error) {
	s.advance() // consume '.'
	var mask strings.Builder
	for mask.Len() < 4 && !s.atEnd() {
		r := s.peek()
		if r > unicode.MaxASCII {
			break
		}
		if _, ok := swizzleLetters[byte(r)]; !ok {
			break
		}
		mask.WriteRune(r)
		s.advance()
	}
	if mask.Len() == 0 {
		return token.Token{}, s.diag.ReportScannerErr(loc, "empty vector swizzle mask")
	}
	return token.Token{Kind: token.VectorSwizzle, Location: loc, Text: mask.String()}, nil
}

// scanNumber scans an optional leading sign, decimal digits, an optional
// fractional part, and an optional exponent. The leading sign is only ever
// reached from NextToken when the scanner is in operand-expecting position
// and the sign is immediately followed by a digit; a '+'/'-' anywhere else
// is tokenized as a binary ArithmeticOp instead.
func (s *Scanner) scanNumber(loc token.Location) (token.Token, error) {
	start := s.pos
	if s.peek() == '+' || s.peek() == '-' {
		s.advance()
	}
	for !s.atEnd() && isDigit(s.peek()) {
		s.advance()
	}
	if !s.atEnd() && s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		for !s.atEnd() && isDigit(s.peek()) {
			s.advance()
		}
	}
	if !s.atEnd() && (s.peek() == 'e' || s.peek() == 'E') {
		save := s.pos
		saveLine, saveCol := s.line, s.col
		s.advance()
		if !s.atEnd() && (s.peek() == '+' || s.peek() == '-') {
			s.advance()
		}
		if !s.atEnd() && isDigit(s.peek()) {
			for !s.atEnd() && isDigit(s.peek()) {
				s.advance()
			}
		} else {
			// not actually an exponent; back out
			s.pos, s.line, s.col = save, saveLine, saveCol
		}
	}

	text := s.source[start:s.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token.Token{}, s.diag.ReportScannerErr(loc, "malformed numeric literal %q", text)
	}
	return token.Token{
		Kind:       token.NumLiteral,
		Location:   loc,
		Text:       text,
		FloatValue: f,
		IntValue:   int64(f),
	}, nil
}

// scanIdentOrFunctionStart scans an identifier; if immediately followed by
// '(' it is a FunctionStart token (the '(' is consumed as part of it).
func (s *Scanner) scanIdentOrFunctionStart(loc token.Location) (token.Token, error) {
	start := s.pos
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
	name := s.source[start:s.pos]

	if !s.atEnd() && s.peek() == '(' {
		s.advance()
		s.parenStack = append(s.parenStack, token.FunctionStart)
		return token.Token{Kind: token.FunctionStart, Location: loc, Text: name}, nil
	}

	return token.Token{}, s.diag.ReportScannerErr(loc, "identifier %q not followed by '(': bare identifiers are not a valid expression", name)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '_'
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.source) }

func (s *Scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.pos:])
	return r
}

func (s *Scanner) peekAt(n int) rune {
	p := s.pos
	for i := 0; i < n; i++ {
		if p >= len(s.source) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(s.source[p:])
		p += size
	}
	if p >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[p:])
	return r
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.pos:])
	s.pos += size
	s.col++
	return r
}
