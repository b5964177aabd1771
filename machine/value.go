// Package machine holds the CEK-adjacent runtime Value universe and the
// discharge procedure that projects a Value back into a closed syntax.Term
// (spec.md §3 Value/Env, §4.4 Discharge).
package machine

import (
	"uplc.dev/core/builtin"
	"uplc.dev/core/syntax"
)

// Env is an environment snapshot: an ordered list of Values indexed from
// the innermost binder outward (index len(Env)-1 is innermost). spec.md §5
// permits any of value-copy, copy-on-write, or refcounted sharing; this
// module picks plain value-copy (see DESIGN.md) — discharge, its only
// consumer, reads Env by index and never needs to grow one.
type Env []Value

// Value is the runtime universe produced by evaluation. It has four
// variants; discharge is the only operation in this module that inspects
// them.
type Value interface {
	isValue()
}

// Con is a reduced constant.
type Con struct {
	Value syntax.ConstantValue
}

// DelayValue is a suspended term paired with the environment captured at
// suspension time.
type DelayValue struct {
	Body Term
	Env  Env
}

// LambdaValue is a closure: a body and its capture environment.
type LambdaValue struct {
	Body Term
	Env  Env
}

// BuiltinValue is a partially applied built-in: Forces counts pending
// force operations still owed before the arguments are consumed, and Args
// holds already-applied argument values in application order.
type BuiltinValue struct {
	Fun    builtin.DefaultFunction
	Forces int
	Args   []Value
}

func (Con) isValue()          {}
func (DelayValue) isValue()   {}
func (LambdaValue) isValue()  {}
func (BuiltinValue) isValue() {}

// Term is a narrower view of syntax.Term restricted to the constructors a
// captured closure body can hold: Var, Lambda, Apply, Delay, Force, plus
// the leaf forms (Constant, ErrorTerm, Builtin) which discharge re-emits
// unchanged. It is a type alias, not a distinct type, so syntax.Term
// values pass through without conversion.
type Term = syntax.Term
