package asm

import "fmt"

// Address is an operand of the form [base], [base ± disp], or, when
// Symbol is set, the RIP-relative [rip + symbol] addressing mode
// spec.md §4.7 uses for globals. Grounded on
// original_source/include/Assembly/Address.hpp's Address<T>; Go has no
// operator overloading, so operator+ becomes WithOffset.
type Address struct {
	Base   Register
	Offset int

	// Symbol, when non-empty, selects RIP-relative addressing and
	// Base/Offset are ignored.
	Symbol string
}

// At returns a plain [base] address.
func At(base Register) Address {
	return Address{Base: base}
}

// AtOffset returns a [base ± offset] address.
func AtOffset(base Register, offset int) Address {
	return Address{Base: base, Offset: offset}
}

// RipRelative returns a [rip + symbol] address for a global symbol.
func RipRelative(symbol string) Address {
	return Address{Symbol: symbol}
}

// WithOffset returns a copy of a shifted by delta, the Go replacement
// for the C++ original's Address<T>::operator+.
func (a Address) WithOffset(delta int) Address {
	a.Offset += delta
	return a
}

// String renders the Intel-syntax memory operand.
func (a Address) String() string {
	if a.Symbol != "" {
		return fmt.Sprintf("[rip + %s]", a.Symbol)
	}
	switch {
	case a.Offset == 0:
		return fmt.Sprintf("[%s]", a.Base)
	case a.Offset > 0:
		return fmt.Sprintf("[%s + %d]", a.Base, a.Offset)
	default:
		return fmt.Sprintf("[%s - %d]", a.Base, -a.Offset)
	}
}
