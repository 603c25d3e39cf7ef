// numeric_test.go
package am

import (
	"errors"
	"testing"
)

func num(t *testing.T, s string) Number {
	t.Helper()
	n, ok := ParseInteger(s)
	if !ok {
		t.Fatalf("bad integer %q", s)
	}
	return n
}

func Test_Numeric_PromotionAndShrink(t *testing.T) {
	// Integer + Integer stays Integer.
	n, err := NumAdd(num(t, "2"), num(t, "3"))
	if err != nil || n.Kind() != KindInteger || n.Render() != "5" {
		t.Fatalf("2+3: %v %v", n, err)
	}

	// Integer / Integer becomes Rational when inexact …
	n, err = NumDiv(num(t, "1"), num(t, "2"))
	if err != nil || n.Kind() != KindRational || n.Render() != "1/2" {
		t.Fatalf("1/2: %v %v", n, err)
	}

	// … and shrinks back to Integer when exact.
	n, err = NumDiv(num(t, "6"), num(t, "3"))
	if err != nil || n.Kind() != KindInteger || n.Render() != "2" {
		t.Fatalf("6/3: %v %v", n, err)
	}

	// Rational arithmetic that lands on a whole value shrinks too.
	half, _ := ParseRational("1", "2")
	n, err = NumAdd(half, half)
	if err != nil || n.Kind() != KindInteger || n.Render() != "1" {
		t.Fatalf("1/2+1/2: %v %v", n, err)
	}

	// Any Float operand promotes the operation to Float.
	n, err = NumAdd(num(t, "1"), Float(0.5))
	if err != nil || n.Kind() != KindFloat || n.Render() != "1.5" {
		t.Fatalf("1+0.5: %v %v", n, err)
	}
}

func Test_Numeric_BigIntegers(t *testing.T) {
	n, err := NumPow(num(t, "2"), num(t, "200"))
	if err != nil {
		t.Fatal(err)
	}
	want := "1606938044258990275541962092341162602522202993782792835301376"
	if n.Render() != want {
		t.Fatalf("2^200 = %s", n.Render())
	}
}

func Test_Numeric_PowExactness(t *testing.T) {
	// Exact: non-negative integer exponent on an exact base.
	half, _ := ParseRational("1", "2")
	n, _ := NumPow(half, num(t, "3"))
	if n.Kind() != KindRational || n.Render() != "1/8" {
		t.Fatalf("(1/2)^3 = %v", n)
	}
	// Negative exponent promotes to Float.
	n, _ = NumPow(num(t, "2"), NumNeg(num(t, "1")))
	if n.Kind() != KindFloat || n.Render() != "0.5" {
		t.Fatalf("2^-1 = %v", n)
	}
	// Fractional exponent promotes to Float.
	n, _ = NumPow(num(t, "4"), Float(0.5))
	if n.Kind() != KindFloat || n.Render() != "2" {
		t.Fatalf("4^0.5 = %v", n)
	}
}

func Test_Numeric_DivisionByZero(t *testing.T) {
	if _, err := NumDiv(num(t, "1"), num(t, "0")); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("1/0: %v", err)
	}
	if _, err := NumMod(num(t, "1"), num(t, "0")); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("1%%0: %v", err)
	}
	// Special dividends follow IEEE rules instead of failing.
	n, err := NumDiv(Infinity, num(t, "0"))
	if err != nil || n != Number(Infinity) {
		t.Fatalf("∞/0: %v %v", n, err)
	}
}

func Test_Numeric_SpecialArithmetic(t *testing.T) {
	n, _ := NumAdd(Infinity, num(t, "1"))
	if n != Number(Infinity) {
		t.Fatalf("∞+1 = %v", n)
	}
	n, _ = NumSub(Infinity, Infinity)
	if n != Number(NaN) {
		t.Fatalf("∞-∞ = %v", n)
	}
	n, _ = NumMul(Pi, num(t, "2"))
	if n.Kind() != KindFloat {
		t.Fatalf("π*2 kind = %v", n.Kind())
	}
	if NumNeg(Infinity) != Number(NegInfinity) || NumNeg(NegInfinity) != Number(Infinity) {
		t.Fatal("negating infinities")
	}
	if NumAbs(NegInfinity) != Number(Infinity) {
		t.Fatal("abs(-∞)")
	}
}

func Test_Numeric_FloatResultsWrapToSpecials(t *testing.T) {
	// Overflow leaves float range and must come back as ∞.
	huge, _ := NumPow(num(t, "10"), Float(400))
	if huge != Number(Infinity) {
		t.Fatalf("10^400.0 = %v", huge)
	}
	n, _ := NumMul(num(t, "0"), Infinity)
	if n != Number(NaN) {
		t.Fatalf("0*∞ = %v", n)
	}
}

func Test_Numeric_Compare(t *testing.T) {
	half, _ := ParseRational("1", "2")
	if c, ok := NumCompare(half, Float(0.5)); !ok || c != 0 {
		t.Fatalf("1/2 vs 0.5: %d %v", c, ok)
	}
	if c, ok := NumCompare(num(t, "2"), num(t, "3")); !ok || c != -1 {
		t.Fatalf("2 vs 3: %d %v", c, ok)
	}
	if _, ok := NumCompare(NaN, NaN); ok {
		t.Fatal("NaN must be unordered")
	}
	if NumEqual(NaN, NaN) {
		t.Fatal("NaN = NaN must be false")
	}
	if c, ok := NumCompare(NegInfinity, num(t, "0")); !ok || c != -1 {
		t.Fatalf("-∞ vs 0: %d %v", c, ok)
	}
	if !NumEqual(Pi, Pi) {
		t.Fatal("π = π")
	}
}

func Test_Numeric_Render(t *testing.T) {
	cases := []struct {
		n    Number
		want string
	}{
		{num(t, "42"), "42"},
		{NumNeg(num(t, "42")), "-42"},
		{Float(0.1), "0.1"},
		{Float(4), "4"},
		{Pi, "π"},
		{Euler, "e"},
		{Infinity, "∞"},
		{NegInfinity, "-∞"},
		{NaN, "NaN"},
	}
	for _, c := range cases {
		if got := c.n.Render(); got != c.want {
			t.Errorf("Render: want %q, got %q", c.want, got)
		}
	}
	third, _ := ParseRational("2", "6")
	if third.Render() != "1/3" {
		t.Errorf("2/6 renders %q", third.Render())
	}
	neg, _ := ParseRational("-3", "6")
	if neg.Render() != "-1/2" {
		t.Errorf("-3/6 renders %q", neg.Render())
	}
}
