package syntax

import (
	"testing"

	"uplc.dev/core/builtin"
)

func TestNameToDeBruijnInnermostBinder(t *testing.T) {
	// (lambda x (lambda y x)) -- x is the second innermost binder, index 2.
	term := NamedLambda{
		ParameterName: "x",
		Body: NamedLambda{
			ParameterName: "y",
			Body:          NamedVar{Name: "x"},
		},
	}
	got, err := NameToDeBruijn(term)
	if err != nil {
		t.Fatalf("NameToDeBruijn: %v", err)
	}
	lam, ok := got.(Lambda)
	if !ok {
		t.Fatalf("outer term is %T, want Lambda", got)
	}
	inner, ok := lam.Body.(Lambda)
	if !ok {
		t.Fatalf("inner term is %T, want Lambda", lam.Body)
	}
	v, ok := inner.Body.(Var)
	if !ok {
		t.Fatalf("innermost term is %T, want Var", inner.Body)
	}
	if v.Index != 2 {
		t.Fatalf("index = %d, want 2", v.Index)
	}
}

func TestNameToDeBruijnUnboundVariable(t *testing.T) {
	_, err := NameToDeBruijn(NamedVar{Name: "z"})
	if err == nil {
		t.Fatalf("expected unbound variable error")
	}
	var unbound *UnboundVariableError
	if e, ok := err.(*UnboundVariableError); !ok {
		t.Fatalf("error type = %T, want *UnboundVariableError", err)
	} else {
		unbound = e
	}
	if unbound.Name != "z" {
		t.Fatalf("name = %q, want z", unbound.Name)
	}
}

func TestDeBruijnToNamedRoundTrip(t *testing.T) {
	original := Lambda{Body: Lambda{Body: Var{Index: 2}}}
	named := DeBruijnToNamed(original)
	back, err := NameToDeBruijn(named)
	if err != nil {
		t.Fatalf("NameToDeBruijn: %v", err)
	}
	lam, ok := back.(Lambda)
	if !ok {
		t.Fatalf("got %T, want Lambda", back)
	}
	inner, ok := lam.Body.(Lambda)
	if !ok {
		t.Fatalf("got %T, want Lambda", lam.Body)
	}
	v, ok := inner.Body.(Var)
	if !ok || v.Index != 2 {
		t.Fatalf("got %+v, want Var{Index: 2}", inner.Body)
	}
}

func TestDeBruijnToNamedFreeVariable(t *testing.T) {
	named := DeBruijnToNamed(Var{Index: 3})
	v, ok := named.(NamedVar)
	if !ok {
		t.Fatalf("got %T, want NamedVar", named)
	}
	if v.Name != "free$3" {
		t.Fatalf("got %q, want free$3", v.Name)
	}
}

func TestNamedBuiltinRoundTrip(t *testing.T) {
	named := NamedBuiltin{Fun: builtin.AddInteger}
	got, err := NameToDeBruijn(named)
	if err != nil {
		t.Fatalf("NameToDeBruijn: %v", err)
	}
	b, ok := got.(Builtin)
	if !ok || b.Fun != builtin.AddInteger {
		t.Fatalf("got %+v, want Builtin{AddInteger}", got)
	}
}

func TestConstantTagTable(t *testing.T) {
	cases := []struct {
		value ConstantValue
		tag   byte
	}{
		{Integer{}, 0},
		{ByteString{}, 1},
		{String{}, 2},
		{Unit{}, 3},
		{Bool{}, 4},
	}
	for _, tc := range cases {
		if got := ConstantTag(tc.value); got != tc.tag {
			t.Fatalf("ConstantTag(%T) = %d, want %d", tc.value, got, tc.tag)
		}
	}
}

func TestConstantTagPanicsOnChar(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for Char, which has no wire tag")
		}
	}()
	ConstantTag(Char{Value: 'x'})
}
