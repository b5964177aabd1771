package machine

import "uplc.dev/core/syntax"

// partialFrame names what PopArgStack should assemble from the top of the
// argument stack (spec.md §4.4 work-stack alphabet).
type partialFrame int

const (
	frameDelay partialFrame = iota
	frameLambda
	frameApply
	frameForce
)

type stepKind int

const (
	stepDischargeValue stepKind = iota
	stepDischargeValueEnv
	stepPopArgStack
)

// workStep is one entry of the discharge work stack. Only the fields for
// its stepKind are meaningful; this is a closed alphabet of three shapes,
// not a general tagged union, so one struct with unused fields is simpler
// than an interface hierarchy here.
type workStep struct {
	kind  stepKind
	value Value
	depth int
	env   Env
	term  syntax.Term
	frame partialFrame
}

// Discharge converts a runtime Value into a closed syntax.Term, re-opening
// every captured environment along the way (spec.md §4.4). It runs on two
// explicit stacks instead of native recursion, so native stack usage stays
// O(1) regardless of how deep the value's closures nest — the one
// exception, argument discharge for a partially applied builtin, recurses
// at most as deep as that builtin's arity (spec.md §4.4 explicitly permits
// this bounded nested call).
func Discharge(v Value) syntax.Term {
	work := []workStep{{kind: stepDischargeValue, value: v}}
	var args []syntax.Term

	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]

		switch s.kind {
		case stepDischargeValue:
			args, work = dischargeValue(s.value, args, work)
		case stepDischargeValueEnv:
			args, work = dischargeValueEnv(s.depth, s.env, s.term, args, work)
		case stepPopArgStack:
			args = popArgStack(s.frame, args)
		}
	}

	if len(args) != 1 {
		panic("machine: discharge terminated with argument-stack depth != 1")
	}
	return args[0]
}

func dischargeValue(v Value, args []syntax.Term, work []workStep) ([]syntax.Term, []workStep) {
	switch val := v.(type) {
	case Con:
		return append(args, syntax.Constant{Value: val.Value}), work
	case BuiltinValue:
		var term syntax.Term = syntax.Builtin{Fun: val.Fun}
		for i := 0; i < val.Forces; i++ {
			term = syntax.Force{Body: term}
		}
		for _, a := range val.Args {
			term = syntax.Apply{Function: term, Argument: Discharge(a)}
		}
		return append(args, term), work
	case DelayValue:
		work = append(work, workStep{
			kind: stepDischargeValueEnv, depth: 0, env: val.Env,
			term: syntax.Delay{Body: val.Body},
		})
		return args, work
	case LambdaValue:
		work = append(work, workStep{
			kind: stepDischargeValueEnv, depth: 0, env: val.Env,
			term: syntax.Lambda{Body: val.Body},
		})
		return args, work
	default:
		panic("machine: unknown Value implementation")
	}
}

func dischargeValueEnv(depth int, env Env, term syntax.Term, args []syntax.Term, work []workStep) ([]syntax.Term, []workStep) {
	switch t := term.(type) {
	case syntax.Var:
		index := int(t.Index)
		if depth >= index {
			// Bound by a binder already re-created while descending.
			return append(args, t), work
		}
		pos := len(env) - (index - depth)
		if pos < 0 || pos >= len(env) {
			// Free variable: no captured value at this position, retain as-is.
			return append(args, t), work
		}
		work = append(work, workStep{kind: stepDischargeValue, value: env[pos]})
		return args, work
	case syntax.Lambda:
		work = append(work, workStep{kind: stepPopArgStack, frame: frameLambda})
		work = append(work, workStep{kind: stepDischargeValueEnv, depth: depth + 1, env: env, term: t.Body})
		return args, work
	case syntax.Apply:
		work = append(work, workStep{kind: stepPopArgStack, frame: frameApply})
		work = append(work, workStep{kind: stepDischargeValueEnv, depth: depth, env: env, term: t.Argument})
		work = append(work, workStep{kind: stepDischargeValueEnv, depth: depth, env: env, term: t.Function})
		return args, work
	case syntax.Delay:
		work = append(work, workStep{kind: stepPopArgStack, frame: frameDelay})
		work = append(work, workStep{kind: stepDischargeValueEnv, depth: depth, env: env, term: t.Body})
		return args, work
	case syntax.Force:
		work = append(work, workStep{kind: stepPopArgStack, frame: frameForce})
		work = append(work, workStep{kind: stepDischargeValueEnv, depth: depth, env: env, term: t.Body})
		return args, work
	default:
		// Constant, ErrorTerm, Builtin: no env-dependent substructure.
		return append(args, t), work
	}
}

func popArgStack(frame partialFrame, args []syntax.Term) []syntax.Term {
	switch frame {
	case frameDelay:
		body := args[len(args)-1]
		return append(args[:len(args)-1], syntax.Delay{Body: body})
	case frameLambda:
		body := args[len(args)-1]
		return append(args[:len(args)-1], syntax.Lambda{Body: body})
	case frameApply:
		argument := args[len(args)-1]
		function := args[len(args)-2]
		return append(args[:len(args)-2], syntax.Apply{Function: function, Argument: argument})
	case frameForce:
		body := args[len(args)-1]
		return append(args[:len(args)-1], syntax.Force{Body: body})
	default:
		panic("machine: unknown partialFrame")
	}
}
