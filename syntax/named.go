package syntax

import (
	"strconv"

	"uplc.dev/core/builtin"
)

// NamedTerm is the human-facing phase of the UPLC AST: variables and
// binders carry string names instead of De Bruijn indices. Parsers and
// pretty-printers work in this phase; the flat codec never sees it
// directly (spec.md §9 design note: "the codec specified here assumes the
// De Bruijn form for on-chain compatibility").
type NamedTerm interface {
	isNamedTerm()
}

// NamedVar references a binder by name.
type NamedVar struct {
	Name string
}

// NamedDelay suspends Body.
type NamedDelay struct {
	Body NamedTerm
}

// NamedLambda introduces a binder named ParameterName over Body.
type NamedLambda struct {
	ParameterName string
	Body          NamedTerm
}

// NamedApply applies Function to Argument.
type NamedApply struct {
	Function NamedTerm
	Argument NamedTerm
}

// NamedConstant wraps a constant value.
type NamedConstant struct {
	Value ConstantValue
}

// NamedForce resolves a suspended NamedDelay.
type NamedForce struct {
	Body NamedTerm
}

// NamedErrorTerm is the named phase's `Error` term.
type NamedErrorTerm struct{}

// NamedBuiltin references one built-in function.
type NamedBuiltin struct {
	Fun builtin.DefaultFunction
}

func (NamedVar) isNamedTerm()       {}
func (NamedDelay) isNamedTerm()     {}
func (NamedLambda) isNamedTerm()    {}
func (NamedApply) isNamedTerm()     {}
func (NamedConstant) isNamedTerm()  {}
func (NamedForce) isNamedTerm()     {}
func (NamedErrorTerm) isNamedTerm() {}
func (NamedBuiltin) isNamedTerm()   {}

// UnboundVariableError reports a named variable with no enclosing binder
// of that name, surfaced by NameToDeBruijn.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return "syntax: unbound variable " + e.Name
}

// NameToDeBruijn resolves every NamedVar in t against its lexical scope,
// producing the wire-compatible Term. Shadowing is resolved innermost-
// first, matching the De Bruijn convention that index 1 names the nearest
// enclosing binder.
func NameToDeBruijn(t NamedTerm) (Term, error) {
	return nameToDeBruijn(t, nil)
}

func nameToDeBruijn(t NamedTerm, scope []string) (Term, error) {
	switch n := t.(type) {
	case NamedVar:
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i] == n.Name {
				return Var{Index: uint64(len(scope) - i)}, nil
			}
		}
		return nil, &UnboundVariableError{Name: n.Name}
	case NamedDelay:
		body, err := nameToDeBruijn(n.Body, scope)
		if err != nil {
			return nil, err
		}
		return Delay{Body: body}, nil
	case NamedLambda:
		body, err := nameToDeBruijn(n.Body, append(scope, n.ParameterName))
		if err != nil {
			return nil, err
		}
		return Lambda{Body: body}, nil
	case NamedApply:
		fn, err := nameToDeBruijn(n.Function, scope)
		if err != nil {
			return nil, err
		}
		arg, err := nameToDeBruijn(n.Argument, scope)
		if err != nil {
			return nil, err
		}
		return Apply{Function: fn, Argument: arg}, nil
	case NamedConstant:
		return Constant{Value: n.Value}, nil
	case NamedForce:
		body, err := nameToDeBruijn(n.Body, scope)
		if err != nil {
			return nil, err
		}
		return Force{Body: body}, nil
	case NamedErrorTerm:
		return ErrorTerm{}, nil
	case NamedBuiltin:
		return Builtin{Fun: n.Fun}, nil
	default:
		panic("syntax: unknown NamedTerm implementation")
	}
}

// DeBruijnToNamed re-introduces synthetic binder names ("v1", "v2", ...
// counted by binder depth) so a wire-decoded Term can be pretty-printed.
// Free variables (an index with no enclosing binder) are rendered as
// "free$<index>".
func DeBruijnToNamed(t Term) NamedTerm {
	return deBruijnToNamed(t, nil)
}

func syntheticName(depth int) string {
	return "v" + strconv.Itoa(depth)
}

func deBruijnToNamed(t Term, scope []string) NamedTerm {
	switch n := t.(type) {
	case Var:
		idx := int(n.Index)
		if idx >= 1 && idx <= len(scope) {
			return NamedVar{Name: scope[len(scope)-idx]}
		}
		return NamedVar{Name: "free$" + strconv.FormatUint(n.Index, 10)}
	case Delay:
		return NamedDelay{Body: deBruijnToNamed(n.Body, scope)}
	case Lambda:
		name := syntheticName(len(scope) + 1)
		return NamedLambda{ParameterName: name, Body: deBruijnToNamed(n.Body, append(scope, name))}
	case Apply:
		return NamedApply{
			Function: deBruijnToNamed(n.Function, scope),
			Argument: deBruijnToNamed(n.Argument, scope),
		}
	case Constant:
		return NamedConstant{Value: n.Value}
	case Force:
		return NamedForce{Body: deBruijnToNamed(n.Body, scope)}
	case ErrorTerm:
		return NamedErrorTerm{}
	case Builtin:
		return NamedBuiltin{Fun: n.Fun}
	default:
		panic("syntax: unknown Term implementation")
	}
}
