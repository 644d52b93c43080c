package json

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/arnodel/arraystream/internal/scanner"
	"github.com/arnodel/arraystream/token"
)

// A Decoder reads JSON input and turns it into tokens, one value at a time.
// It only reads as much input as it needs to complete the value it is
// parsing.
type Decoder struct {
	scanr *scanner.Scanner
}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// Pos returns the position of the next unread byte.
func (d *Decoder) Pos() scanner.Pos {
	return d.scanr.CurrentPos()
}

// ParseValue reads a single JSON value and puts its tokens into out.  It
// returns a *SyntaxError if the input is not valid JSON, or the error of the
// underlying reader unchanged.  On error, some tokens of the value may
// already have been put into out.
func (d *Decoder) ParseValue(out token.WriteStream) (err error) {
	defer func() {
		if err != nil {
			d.scanr.AbortToken()
		}
	}()
	return d.parseValue(out)
}

func (d *Decoder) parseValue(out token.WriteStream) error {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	switch b {
	case '"':
		s, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		out.Put(s)
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		return d.parseLiteral(out, trueBytes, token.TrueScalar)
	case 'f':
		return d.parseLiteral(out, falseBytes, token.FalseScalar)
	case 'n':
		return d.parseLiteral(out, nullBytes, token.NullScalar)
	default:
		if b == '-' || scanner.IsDigit(b) {
			n, err := ParseNumber(d.scanr)
			if err != nil {
				return err
			}
			out.Put(n)
			return nil
		}
		return UnexpectedByte(d.scanr, "expected value, got")
	}
}

func (d *Decoder) parseLiteral(out token.WriteStream, lit []byte, tok *token.Scalar) error {
	if err := checkBytes(d.scanr, lit); err != nil {
		return err
	}
	out.Put(tok)
	return nil
}

func (d *Decoder) parseArray(out token.WriteStream) error {
	var b byte
	var err error
	err = ExpectByte(d.scanr, '[')
	if err != nil {
		return err
	}
	out.Put(&token.StartArray{})
	b, err = d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == ']' {
		d.scanr.Read()
		out.Put(&token.EndArray{})
		return nil
	}
	for {
		err = d.parseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case ']':
			d.scanr.Read()
			out.Put(&token.EndArray{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return UnexpectedByte(d.scanr, "expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out token.WriteStream) error {
	var b byte
	err := ExpectByte(d.scanr, '{')
	if err != nil {
		return err
	}
	out.Put(&token.StartObject{})
	b, err = d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == '}' {
		d.scanr.Read()
		out.Put(&token.EndObject{})
		return nil
	}
	for {
		key, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		key.TypeAndFlags |= token.KeyMask
		out.Put(key)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != ':' {
			return UnexpectedByte(d.scanr, "expected ':', got")
		}
		d.scanr.Read()
		err = d.parseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case '}':
			d.scanr.Read()
			out.Put(&token.EndObject{})
			return nil
		case ',':
			d.scanr.Read()
			_, err = d.scanr.SkipSpaceAndPeek()
			if err != nil {
				return err
			}
		default:
			return UnexpectedByte(d.scanr, "expected '}' or ',', got")
		}
	}
}

func ExpectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return UnexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

// UnexpectedByte consumes the next byte and returns a *SyntaxError about it.
func UnexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	pos := scanr.CurrentPos()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	return newSyntaxError(pos, b, expected, args...)
}

// ParseString parses a JSON string from the scanner.  The returned scalar is
// flagged as alnum and/or unescaped when that applies.
func ParseString(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	err := ExpectByte(scanr, '"')
	if err != nil {
		return nil, err
	}
	isAlnum := true
	isUnescaped := true
	firstChar := true
	for {
		pos := scanr.CurrentPos()
		b, err := scanr.Read()
		if err != nil {
			return nil, err
		}
		switch b {
		case '\\':
			isUnescaped = false
			x, err := scanr.Read()
			if err != nil {
				return nil, err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						return nil, err
					}
					if !isHex(b) {
						scanr.Back()
						return nil, UnexpectedByte(scanr, "expected hex, got")
					}
				}
			default:
				scanr.Back()
				return nil, UnexpectedByte(scanr, "invalid escape character")
			}
			isAlnum = false
		case '"':
			stringBytes := scanr.EndToken()
			scalar := token.NewScalar(token.String, stringBytes)
			if isAlnum && !firstChar {
				scalar.TypeAndFlags |= token.AlnumMask
			}
			if isUnescaped {
				scalar.TypeAndFlags |= token.UnescapedMask
			}
			return scalar, nil
		case scanner.EOF:
			if !scanr.AtEOF() {
				return nil, invalidUTF8(pos, []byte{b})
			}
			scanr.Back()
			return nil, UnexpectedByte(scanr, "unterminated string")
		default:
			switch {
			case b >= utf8.RuneSelf:
				if err := readRune(scanr, pos, b); err != nil {
					return nil, err
				}
				isAlnum = false
			case scanner.IsCtrl(b):
				scanr.Back()
				return nil, UnexpectedByte(scanr, "invalid control character in string")
			case isAlnum:
				if firstChar {
					isAlnum = scanner.IsAlpha(b)
				} else {
					isAlnum = scanner.IsAlnum(b)
				}
			}
		}
		firstChar = false
	}
}

// readRune consumes the rest of the UTF-8 sequence starting with lead.
func readRune(scanr *scanner.Scanner, pos scanner.Pos, lead byte) error {
	var seq [utf8.UTFMax]byte
	seq[0] = lead
	n := 1
	for !utf8.FullRune(seq[:n]) {
		b, err := scanr.Read()
		if err != nil {
			return err
		}
		if b == scanner.EOF && scanr.AtEOF() {
			scanr.Back()
			break
		}
		seq[n] = b
		n++
	}
	if r, size := utf8.DecodeRune(seq[:n]); r == utf8.RuneError && size <= 1 {
		return invalidUTF8(pos, seq[:n])
	}
	return nil
}

func invalidUTF8(pos scanner.Pos, seq []byte) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf("invalid UTF-8 in string: %q", seq)}
}

func isHex(b byte) bool {
	return scanner.IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// ParseNumber parses a JSON number from the scanner.
func ParseNumber(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()
	if err != nil {
		return nil, err
	}

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
		if err != nil {
			return nil, err
		}
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
		if err != nil {
			return nil, err
		}
	} else if b >= '1' && b <= '9' {
		b, _, err = ReadDigits(scanr)
		if err != nil {
			return nil, err
		}
	} else {
		scanr.Back()
		return nil, UnexpectedByte(scanr, "expected digit, got")
	}

	// Fraction part
	if b == '.' {
		b, n, err = ReadDigits(scanr)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, UnexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			return nil, err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		_, n, err = ReadDigits(scanr)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			return nil, UnexpectedByte(scanr, "expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

func ReadDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

func checkBytes(scanr *scanner.Scanner, expected []byte) error {
	for _, xb := range expected {
		if err := ExpectByte(scanr, xb); err != nil {
			return err
		}
	}
	return nil
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
