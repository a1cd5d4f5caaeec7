package lexer

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

type TokenType int

// Token types
const (
	LEX_EOF TokenType = iota
	LEX_IDENT
	LEX_NUMBER
	LEX_KEYWORD
	LEX_OPERATOR
	LEX_PUNCTUATION
)

func (t TokenType) String() string {
	switch t {
	case LEX_EOF:
		return "EOF"
	case LEX_IDENT:
		return "IDENT"
	case LEX_NUMBER:
		return "NUMBER"
	case LEX_KEYWORD:
		return "KEYWORD"
	case LEX_OPERATOR:
		return "OPERATOR"
	case LEX_PUNCTUATION:
		return "PUNCTUATION"
	default:
		return "UNKNOWN"
	}
}

// Keywords in vibe
var keywords = map[string]bool{
	"fn":    true,
	"let":   true,
	"print": true,
	"if":    true,
	"else":  true,
}

// Single-character operators and punctuation
var singleCharTokens = map[rune]TokenType{
	'(': LEX_PUNCTUATION,
	')': LEX_PUNCTUATION,
	'{': LEX_PUNCTUATION,
	'}': LEX_PUNCTUATION,
	';': LEX_PUNCTUATION,
	'+': LEX_OPERATOR,
	'-': LEX_OPERATOR,
	'*': LEX_OPERATOR,
}

// Operators that may be followed by a second character forming a longer operator.
// The bool tells whether the first character is valid on its own.
var twoCharTokens = map[rune]struct {
	second rune
	single bool
}{
	'=': {'=', true},
	'!': {'=', false},
	'<': {'=', true},
	'>': {'=', true},
	'&': {'&', false},
	'|': {'|', false},
}

type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Lexeme struct {
	Type TokenType
	Str  string
	Loc  Location
}

func (l Lexeme) String() string {
	if l.Str == "" {
		return fmt.Sprintf("<%s>", l.Type)
	}
	return fmt.Sprintf("<%s %q>", l.Type, l.Str)
}

func (l Lexeme) IsKeyword(kv string) bool {
	return l.Type == LEX_KEYWORD && l.Str == kv
}

func (l Lexeme) IsPunctuation(pv string) bool {
	return l.Type == LEX_PUNCTUATION && l.Str == pv
}

func (l Lexeme) IsOperator(op string) bool {
	return l.Type == LEX_OPERATOR && l.Str == op
}

type Lexer struct {
	input     *bufio.Reader
	filename  string
	line      int
	col       int
	prevCol   int
	lastRune  rune
	lastSize  int
	hasUnread bool
}

func New(inputReader io.Reader, filename string) *Lexer {
	return &Lexer{
		input:    bufio.NewReader(inputReader),
		filename: filename,
		line:     1,
		col:      1,
		prevCol:  1,
	}
}

// readRune reads the next rune from the input
func (l *Lexer) readRune() (rune, int, error) {
	var r rune
	var size int
	var err error

	if l.hasUnread {
		l.hasUnread = false
		r, size, err = l.lastRune, l.lastSize, nil
	} else {
		r, size, err = l.input.ReadRune()
	}

	if err != nil {
		return 0, 0, err
	}

	l.prevCol = l.col
	l.lastRune = r
	l.lastSize = size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, size, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
}

func (l *Lexer) location(line, col int) Location {
	return Location{Filename: l.filename, Line: line, Col: col}
}

// skipSpace skips whitespace characters
func (l *Lexer) skipSpace() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// skipComment skips a C++ style comment (from // to end of line)
func (l *Lexer) skipComment() error {
	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// Next returns the next lexeme from the input
func (l *Lexer) Next() (Lexeme, error) {
	if err := l.skipSpace(); err != nil {
		return Lexeme{Type: LEX_EOF}, err
	}
	loc := l.location(l.line, l.col)

	r, _, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Lexeme{Type: LEX_EOF, Loc: loc}, nil
		}
		return Lexeme{Type: LEX_EOF}, err
	}

	switch {
	case unicode.IsLetter(r) || r == '_':
		l.unreadRune()
		return l.lexIdent(loc)
	case unicode.IsDigit(r):
		l.unreadRune()
		return l.lexNumber(loc)
	case r == '/':
		nextR, _, err := l.readRune()
		if err != nil && err != io.EOF {
			return Lexeme{Type: LEX_EOF}, err
		}
		if err == nil && nextR == '/' {
			if err := l.skipComment(); err != nil {
				return Lexeme{Type: LEX_EOF}, err
			}
			return l.Next()
		}
		if err == nil {
			l.unreadRune()
		}
		return Lexeme{Type: LEX_OPERATOR, Str: "/", Loc: loc}, nil
	}

	if tc, ok := twoCharTokens[r]; ok {
		nextR, _, err := l.readRune()
		if err != nil && err != io.EOF {
			return Lexeme{Type: LEX_EOF}, err
		}
		if err == nil && nextR == tc.second {
			return Lexeme{Type: LEX_OPERATOR, Str: string(r) + string(nextR), Loc: loc}, nil
		}
		if err == nil {
			l.unreadRune()
		}
		if !tc.single {
			return Lexeme{Type: LEX_EOF}, fmt.Errorf("%s: unexpected character %q", loc, r)
		}
		return Lexeme{Type: LEX_OPERATOR, Str: string(r), Loc: loc}, nil
	}

	if tokenType, ok := singleCharTokens[r]; ok {
		return Lexeme{Type: tokenType, Str: string(r), Loc: loc}, nil
	}

	return Lexeme{Type: LEX_EOF}, fmt.Errorf("%s: unexpected character %q", loc, r)
}

// lexIdent reads an identifier or keyword
func (l *Lexer) lexIdent(loc Location) (Lexeme, error) {
	var ident []rune

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Lexeme{}, err
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			l.unreadRune()
			break
		}

		ident = append(ident, r)
	}

	str := string(ident)
	if keywords[str] {
		return Lexeme{Type: LEX_KEYWORD, Str: str, Loc: loc}, nil
	}
	return Lexeme{Type: LEX_IDENT, Str: str, Loc: loc}, nil
}

// lexNumber reads a decimal number literal
func (l *Lexer) lexNumber(loc Location) (Lexeme, error) {
	var num []rune

	for {
		r, _, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Lexeme{}, err
		}

		if !unicode.IsDigit(r) {
			l.unreadRune()
			break
		}

		num = append(num, r)
	}

	return Lexeme{Type: LEX_NUMBER, Str: string(num), Loc: loc}, nil
}
