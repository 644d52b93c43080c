package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Number is a JSON number.  It keeps the literal text of the number so that
// values read from the input are written back exactly, whatever their size
// or precision.  The zero value is the number 0.
type Number struct {
	lit string
}

func (Number) Kind() Kind { return NumberKind }
func (Number) isValue()   {}

var ErrInvalidNumber = errors.New("invalid number")

// ParseNumber returns the Number with literal s, which must be a valid JSON
// number.
func ParseNumber(s string) (Number, error) {
	n := Number{lit: s}
	if !n.Valid() {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return n, nil
}

// MustParseNumber is like ParseNumber but panics on error.
func MustParseNumber(s string) Number {
	n, err := ParseNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

func Int(n int64) Number {
	return Number{lit: strconv.FormatInt(n, 10)}
}

func Uint(n uint64) Number {
	return Number{lit: strconv.FormatUint(n, 10)}
}

// Float returns the shortest literal for x.  NaN and infinities have no JSON
// representation: the resulting Number is not Valid.
func Float(x float64) Number {
	return Number{lit: strconv.FormatFloat(x, 'g', -1, 64)}
}

// String returns the literal.
func (n Number) String() string {
	if n.lit == "" {
		return "0"
	}
	return n.lit
}

// Valid reports whether the literal is a JSON number.
func (n Number) Valid() bool {
	lit := n.String()
	first, last := lit[0], lit[len(lit)-1]
	if first != '-' && (first < '0' || first > '9') || last < '0' || last > '9' {
		return false
	}
	return json.Valid([]byte(lit))
}

// Int64 returns the number as an int64.  It fails if the number is not an
// integer or does not fit.
func (n Number) Int64() (int64, error) {
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	// Literals like 1e3 or 2.0 are still integers.
	f, ferr := strconv.ParseFloat(n.String(), 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, err
	}
	return int64(f), nil
}

// Float64 returns the closest float64 to the number.
func (n Number) Float64() (float64, error) {
	if !n.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, n.lit)
	}
	return strconv.ParseFloat(n.String(), 64)
}
