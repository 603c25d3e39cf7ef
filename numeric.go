// numeric.go — the AM numeric tower: exact integers and rationals, optional
// floats, and the named special constants.
//
// OVERVIEW
// --------
// AM arithmetic is exact by default. A numeric value is one of a closed set
// of variants:
//
//	Integer  — arbitrary-precision signed integer (*big.Int)
//	Rational — reduced fraction, denominator > 0 (*big.Rat)
//	Float    — IEEE double, entered only through float literals or
//	           operations that cannot stay exact
//	Special  — π, e, ∞, -∞, NaN
//
// Promotion is one-directional and checked at every operator site:
//
//	Integer < Rational < Float
//
// Mixing Integer with Rational promotes to Rational; any Float operand
// promotes the whole operation to Float; a Special operand evaluates under
// IEEE float rules, and a float result that comes out ±Inf or NaN is mapped
// back to the corresponding Special so it renders canonically (∞, -∞, NaN).
//
// Division never auto-produces ∞ or NaN: dividing a non-Special value by
// zero is ErrDivisionByZero. Infinities and NaN enter a program only as
// literal constants, or as the result of arithmetic that already involves a
// Special operand.
//
// Exact results shrink: a Rational whose reduced denominator is 1 becomes an
// Integer, so 6/3 and 4/2 + 0 are Integers, not Rationals with denominator 1.
package am

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// NumKind discriminates the numeric variants. The order matters: it is the
// promotion order used by arithmeticKind.
type NumKind int

const (
	KindInteger NumKind = iota
	KindRational
	KindFloat
	KindSpecial
)

func (k NumKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindRational:
		return "rational"
	case KindFloat:
		return "float"
	case KindSpecial:
		return "special"
	}
	return fmt.Sprintf("numkind(%d)", int(k))
}

// Number is the closed variant type. Only the four types in this file
// implement it.
type Number interface {
	Kind() NumKind
	// Render is the canonical textual form: one spelling per value.
	Render() string
	numberMarker()
}

// ErrDivisionByZero is the sentinel for x/0 and x%0 with a non-Special
// dividend. The evaluator attaches a source position before surfacing it.
var ErrDivisionByZero = errors.New("division by zero")

/* ---------- variants ---------- */

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	x *big.Int
}

func NewInteger(x int64) Integer        { return Integer{big.NewInt(x)} }
func IntegerFromBig(x *big.Int) Integer { return Integer{x} }
func (i Integer) Kind() NumKind         { return KindInteger }
func (i Integer) Render() string        { return i.x.String() }
func (i Integer) Big() *big.Int         { return i.x }
func (Integer) numberMarker()           {}
func (i Integer) Sign() int             { return i.x.Sign() }
func (i Integer) IsInt64() bool         { return i.x.IsInt64() }
func (i Integer) Int64() int64          { return i.x.Int64() }

// Rational is a reduced fraction with a positive denominator. big.Rat keeps
// both invariants for us; constructors must never pass a zero denominator.
type Rational struct {
	x *big.Rat
}

func RationalFromBig(x *big.Rat) Rational { return Rational{x} }
func (r Rational) Kind() NumKind          { return KindRational }
func (r Rational) Big() *big.Rat          { return r.x }
func (Rational) numberMarker()            {}

func (r Rational) Render() string {
	return r.x.Num().String() + "/" + r.x.Denom().String()
}

// Float is an IEEE double. It never holds ±Inf or NaN; those shrink to
// Specials in wrapFloat.
type Float float64

func (f Float) Kind() NumKind { return KindFloat }
func (Float) numberMarker()   {}

func (f Float) Render() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	return s
}

// Special is one of the named constants outside the exact tower.
type Special int

const (
	Pi Special = iota
	Euler
	Infinity
	NegInfinity
	NaN
)

func (s Special) Kind() NumKind { return KindSpecial }
func (Special) numberMarker()   {}

func (s Special) Render() string {
	switch s {
	case Pi:
		return "π"
	case Euler:
		return "e"
	case Infinity:
		return "∞"
	case NegInfinity:
		return "-∞"
	case NaN:
		return "NaN"
	}
	return fmt.Sprintf("special(%d)", int(s))
}

// Float64 is the IEEE value a Special contributes to mixed arithmetic.
func (s Special) Float64() float64 {
	switch s {
	case Pi:
		return math.Pi
	case Euler:
		return math.E
	case Infinity:
		return math.Inf(1)
	case NegInfinity:
		return math.Inf(-1)
	}
	return math.NaN()
}

/* ---------- literal constructors ---------- */

// ParseInteger builds an Integer from decimal digits.
func ParseInteger(s string) (Integer, bool) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, false
	}
	return Integer{x}, true
}

// ParseRational builds a reduced Rational from "num/den" decimal text.
// The caller (the lexer) guarantees den is non-zero.
func ParseRational(num, den string) (Number, bool) {
	n, ok := new(big.Int).SetString(num, 10)
	if !ok {
		return nil, false
	}
	d, ok := new(big.Int).SetString(den, 10)
	if !ok || d.Sign() == 0 {
		return nil, false
	}
	return shrinkRat(new(big.Rat).SetFrac(n, d)), true
}

// ParseFloat builds a Float from a decimal literal with a point.
func ParseFloat(s string) (Number, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return wrapFloat(f), true
}

/* ---------- promotion helpers ---------- */

// arithmeticKind is the promotion rule: the larger of the two kinds wins.
func arithmeticKind(a, b Number) NumKind {
	ka, kb := a.Kind(), b.Kind()
	if ka > kb {
		return ka
	}
	return kb
}

func toRat(n Number) *big.Rat {
	switch v := n.(type) {
	case Integer:
		return new(big.Rat).SetInt(v.x)
	case Rational:
		return v.x
	case Float:
		// Exact: every finite float64 is a rational.
		r := new(big.Rat).SetFloat64(float64(v))
		return r
	}
	panic("am: toRat on special")
}

func toFloat(n Number) float64 {
	switch v := n.(type) {
	case Integer:
		f, _ := new(big.Float).SetInt(v.x).Float64()
		return f
	case Rational:
		f, _ := v.x.Float64()
		return f
	case Float:
		return float64(v)
	case Special:
		return v.Float64()
	}
	panic("am: toFloat: unknown variant")
}

// shrinkRat pulls a rational down to an Integer when the denominator is 1.
func shrinkRat(r *big.Rat) Number {
	if r.IsInt() {
		return Integer{new(big.Int).Set(r.Num())}
	}
	return Rational{r}
}

// wrapFloat maps ±Inf and NaN back into the Special variant so every value
// has exactly one canonical rendering.
func wrapFloat(f float64) Number {
	switch {
	case math.IsNaN(f):
		return NaN
	case math.IsInf(f, 1):
		return Infinity
	case math.IsInf(f, -1):
		return NegInfinity
	}
	return Float(f)
}

func isZero(n Number) bool {
	switch v := n.(type) {
	case Integer:
		return v.x.Sign() == 0
	case Rational:
		return v.x.Sign() == 0
	case Float:
		return float64(v) == 0
	}
	return false
}

/* ---------- arithmetic ---------- */

// NumAdd, NumSub, NumMul, NumDiv, NumMod and NumPow implement the operator
// table. Each promotes to the common kind and dispatches exhaustively.

func NumAdd(a, b Number) (Number, error) {
	switch arithmeticKind(a, b) {
	case KindInteger:
		return Integer{new(big.Int).Add(a.(Integer).x, b.(Integer).x)}, nil
	case KindRational:
		return shrinkRat(new(big.Rat).Add(toRat(a), toRat(b))), nil
	default:
		return wrapFloat(toFloat(a) + toFloat(b)), nil
	}
}

func NumSub(a, b Number) (Number, error) {
	switch arithmeticKind(a, b) {
	case KindInteger:
		return Integer{new(big.Int).Sub(a.(Integer).x, b.(Integer).x)}, nil
	case KindRational:
		return shrinkRat(new(big.Rat).Sub(toRat(a), toRat(b))), nil
	default:
		return wrapFloat(toFloat(a) - toFloat(b)), nil
	}
}

func NumMul(a, b Number) (Number, error) {
	switch arithmeticKind(a, b) {
	case KindInteger:
		return Integer{new(big.Int).Mul(a.(Integer).x, b.(Integer).x)}, nil
	case KindRational:
		return shrinkRat(new(big.Rat).Mul(toRat(a), toRat(b))), nil
	default:
		return wrapFloat(toFloat(a) * toFloat(b)), nil
	}
}

// NumDiv divides exactly when both operands are exact: an Integer quotient
// when evenly divisible, otherwise a Rational. A zero divisor with a
// non-Special dividend is ErrDivisionByZero; a Special dividend follows
// IEEE rules (∞/0 = ∞, NaN/0 = NaN).
func NumDiv(a, b Number) (Number, error) {
	if isZero(b) && a.Kind() != KindSpecial {
		return nil, ErrDivisionByZero
	}
	switch arithmeticKind(a, b) {
	case KindInteger, KindRational:
		return shrinkRat(new(big.Rat).Quo(toRat(a), toRat(b))), nil
	default:
		return wrapFloat(toFloat(a) / toFloat(b)), nil
	}
}

// NumMod is exact (truncated, like Go's %) on integers and falls back to
// math.Mod for anything wider.
func NumMod(a, b Number) (Number, error) {
	if isZero(b) && a.Kind() != KindSpecial {
		return nil, ErrDivisionByZero
	}
	if arithmeticKind(a, b) == KindInteger {
		return Integer{new(big.Int).Rem(a.(Integer).x, b.(Integer).x)}, nil
	}
	return wrapFloat(math.Mod(toFloat(a), toFloat(b))), nil
}

// maxExactExpBits bounds exact exponentiation; a larger exponent promotes to
// Float rather than allocating an enormous big.Int.
const maxExactExpBits = 32

// NumPow keeps Integer^n and Rational^n exact for non-negative integer n;
// every other combination promotes to Float (wrapping Inf/NaN as Specials).
func NumPow(a, b Number) (Number, error) {
	if e, ok := b.(Integer); ok && e.x.Sign() >= 0 && e.x.BitLen() <= maxExactExpBits {
		switch base := a.(type) {
		case Integer:
			return Integer{new(big.Int).Exp(base.x, e.x, nil)}, nil
		case Rational:
			num := new(big.Int).Exp(base.x.Num(), e.x, nil)
			den := new(big.Int).Exp(base.x.Denom(), e.x, nil)
			return shrinkRat(new(big.Rat).SetFrac(num, den)), nil
		}
	}
	return wrapFloat(math.Pow(toFloat(a), toFloat(b))), nil
}

// NumNeg negates. -∞ and ∞ swap; -NaN stays NaN; -π and -e leave the
// Special set and become Floats.
func NumNeg(a Number) Number {
	switch v := a.(type) {
	case Integer:
		return Integer{new(big.Int).Neg(v.x)}
	case Rational:
		return Rational{new(big.Rat).Neg(v.x)}
	case Float:
		return Float(-float64(v))
	case Special:
		switch v {
		case Infinity:
			return NegInfinity
		case NegInfinity:
			return Infinity
		case NaN:
			return NaN
		}
		return wrapFloat(-v.Float64())
	}
	panic("am: NumNeg: unknown variant")
}

// NumAbs keeps the variant where it can: |Integer| is an Integer, |-∞| is ∞.
func NumAbs(a Number) Number {
	switch v := a.(type) {
	case Integer:
		return Integer{new(big.Int).Abs(v.x)}
	case Rational:
		return Rational{new(big.Rat).Abs(v.x)}
	case Float:
		return Float(math.Abs(float64(v)))
	case Special:
		if v == NegInfinity {
			return Infinity
		}
		return v
	}
	panic("am: NumAbs: unknown variant")
}

// NumSqrt always answers in floats (√2 has no exact form in the tower).
func NumSqrt(a Number) Number {
	return wrapFloat(math.Sqrt(toFloat(a)))
}

/* ---------- comparison ---------- */

// NumCompare orders two numbers by mathematical value after promotion.
// The second result is false when either operand is NaN: NaN is unordered
// against everything, itself included, and all relational operators on it
// must come out false.
func NumCompare(a, b Number) (int, bool) {
	sa, aIsSpecial := a.(Special)
	sb, bIsSpecial := b.(Special)
	if (aIsSpecial && sa == NaN) || (bIsSpecial && sb == NaN) {
		return 0, false
	}
	if aIsSpecial || bIsSpecial {
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	// Exact path: floats convert to rationals losslessly.
	return toRat(a).Cmp(toRat(b)), true
}

// NumEqual is value equality under the same promotion rules; NaN ≠ NaN.
func NumEqual(a, b Number) bool {
	c, ok := NumCompare(a, b)
	return ok && c == 0
}
