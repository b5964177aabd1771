// Package syntax is the UPLC data model: programs, terms, constants, and
// the named/De Bruijn binder duality (spec.md §3, §4.2).
//
// Term trees carry no behavior beyond their shape; cloning a subtree is a
// plain Go value/slice copy, so the codec and discharge packages make no
// aliasing assumptions about them.
package syntax

import (
	"fmt"
	"math/big"

	"uplc.dev/core/builtin"
)

// Version is a program's three-component semantic version. All three
// fields are non-negative by construction (they decode through the
// natural-number encoding, which cannot produce a negative value).
type Version struct {
	Major, Minor, Patch uint64
}

// Program pairs a version with its root term. The wire format emits the
// version ahead of the term (spec.md §6).
type Program struct {
	Version Version
	Term    Term
}

// Term is the De Bruijn-indexed UPLC term AST, the phase the flat codec
// and the discharge machine both operate on. It has exactly eight
// implementations, one per spec.md §3 table row.
type Term interface {
	isTerm()
}

// Var is a De Bruijn variable reference. Index must be >= 1; 1 names the
// innermost enclosing binder.
type Var struct {
	Index uint64
}

// Delay suspends Body until a matching Force.
type Delay struct {
	Body Term
}

// Lambda introduces one binder over Body. The De Bruijn phase carries no
// binder payload: every reference to it is just an index.
type Lambda struct {
	Body Term
}

// Apply applies Function to Argument.
type Apply struct {
	Function Term
	Argument Term
}

// Constant wraps a fully reduced constant value.
type Constant struct {
	Value ConstantValue
}

// Force resolves a suspended Delay.
type Force struct {
	Body Term
}

// ErrorTerm is the UPLC `Error` term: evaluating it always diverges the
// machine. Named ErrorTerm rather than Error to avoid colliding with Go's
// error interface.
type ErrorTerm struct{}

// Builtin references one built-in function, unapplied.
type Builtin struct {
	Fun builtin.DefaultFunction
}

func (Var) isTerm()       {}
func (Delay) isTerm()     {}
func (Lambda) isTerm()    {}
func (Apply) isTerm()     {}
func (Constant) isTerm()  {}
func (Force) isTerm()     {}
func (ErrorTerm) isTerm() {}
func (Builtin) isTerm()   {}

// ConstantValue is the sum type backing Constant.Value: arbitrary-precision
// integer, byte string, UTF-8 string, unit, or bool, plus an internal Char
// variant that never reaches the wire (spec.md §3, §9).
type ConstantValue interface {
	isConstant()
}

// Integer is an arbitrary-precision signed integer constant.
type Integer struct {
	Value *big.Int
}

// ByteString is an arbitrary-length byte string constant.
type ByteString struct {
	Value []byte
}

// String is a UTF-8 string constant.
type String struct {
	Value string
}

// Unit is the single-valued unit constant.
type Unit struct{}

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

// Char is a provisional internal-only constant with no wire tag. Encoders
// targeting the chain must reject it (spec.md §9).
type Char struct {
	Value rune
}

func (Integer) isConstant()    {}
func (ByteString) isConstant() {}
func (String) isConstant()     {}
func (Unit) isConstant()       {}
func (Bool) isConstant()       {}
func (Char) isConstant()       {}

// ConstantTag is the 4-bit wire tag for a ConstantValue. Char has none;
// ConstantTag panics if asked for one, since a conforming encoder must reject
// Char before ever reaching the wire layer (see flat.Encode).
func ConstantTag(v ConstantValue) byte {
	switch v.(type) {
	case Integer:
		return 0
	case ByteString:
		return 1
	case String:
		return 2
	case Unit:
		return 3
	case Bool:
		return 4
	default:
		panic(fmt.Sprintf("syntax: %T has no wire tag", v))
	}
}
