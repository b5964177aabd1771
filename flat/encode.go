// Package flat implements the deterministic flat binary codec for UPLC
// programs (spec.md §4.3, §6, §7, §8): Program <-> bytes, bit-exact.
package flat

import (
	"math/big"

	"uplc.dev/core/bitio"
	"uplc.dev/core/builtin"
	"uplc.dev/core/syntax"
)

const (
	termTagWidth = 4
	constTagWidth = 4
)

// Encode serializes p to its canonical flat byte representation. Equal
// programs always encode to equal byte sequences (spec.md §4.3
// Determinism).
func Encode(p syntax.Program) ([]byte, error) {
	w := bitio.NewWriter(64)
	if err := w.WriteNatural(p.Version.Major); err != nil {
		return nil, wrap(err)
	}
	if err := w.WriteNatural(p.Version.Minor); err != nil {
		return nil, wrap(err)
	}
	if err := w.WriteNatural(p.Version.Patch); err != nil {
		return nil, wrap(err)
	}
	if err := encodeTerm(w, p.Term); err != nil {
		return nil, err
	}
	w.WriteEndMarker()
	return w.Bytes(), nil
}

func writeTermTag(w *bitio.Writer, tag byte) error {
	if err := w.WriteBits(termTagWidth, uint64(tag)); err != nil {
		return wrap(err)
	}
	return nil
}

func encodeTerm(w *bitio.Writer, t syntax.Term) error {
	switch term := t.(type) {
	case syntax.Var:
		if err := writeTermTag(w, 0); err != nil {
			return err
		}
		return wrap(w.WriteNatural(term.Index))
	case syntax.Delay:
		if err := writeTermTag(w, 1); err != nil {
			return err
		}
		return encodeTerm(w, term.Body)
	case syntax.Lambda:
		if err := writeTermTag(w, 2); err != nil {
			return err
		}
		return encodeTerm(w, term.Body)
	case syntax.Apply:
		if err := writeTermTag(w, 3); err != nil {
			return err
		}
		if err := encodeTerm(w, term.Function); err != nil {
			return err
		}
		return encodeTerm(w, term.Argument)
	case syntax.Constant:
		if err := writeTermTag(w, 4); err != nil {
			return err
		}
		return encodeConstant(w, term.Value)
	case syntax.Force:
		if err := writeTermTag(w, 5); err != nil {
			return err
		}
		return encodeTerm(w, term.Body)
	case syntax.ErrorTerm:
		return writeTermTag(w, 6)
	case syntax.Builtin:
		if err := writeTermTag(w, 7); err != nil {
			return err
		}
		if err := w.WriteBits(builtin.TagWidth, uint64(term.Fun)); err != nil {
			return wrap(err)
		}
		return nil
	default:
		panic("flat: unknown syntax.Term implementation")
	}
}

func encodeConstant(w *bitio.Writer, v syntax.ConstantValue) error {
	if _, isChar := v.(syntax.Char); isChar {
		return codecErr(UnsupportedConstant, "char constant has no wire tag")
	}
	tag := syntax.ConstantTag(v)
	if err := w.WriteTagList([]byte{tag}, constTagWidth); err != nil {
		return wrap(err)
	}
	switch c := v.(type) {
	case syntax.Integer:
		return encodeInteger(w, c.Value)
	case syntax.ByteString:
		return wrap(w.WriteByteString(c.Value))
	case syntax.String:
		return wrap(w.WriteByteString([]byte(c.Value)))
	case syntax.Unit:
		return nil
	case syntax.Bool:
		var bit uint64
		if c.Value {
			bit = 1
		}
		return wrap(w.WriteBits(1, bit))
	default:
		panic("flat: unknown syntax.ConstantValue implementation")
	}
}

// encodeInteger zig-zags an arbitrary-precision signed integer into an
// unsigned natural (sign folded into the LSB) and writes it in 7-bit
// groups. Word-sized uint64 naturals aren't enough here: on-chain integers
// are unbounded (spec.md §9).
func encodeInteger(w *bitio.Writer, n *big.Int) error {
	return wrap(writeBigNatural(w, zigZagEncode(n)))
}

func zigZagEncode(n *big.Int) *big.Int {
	if n.Sign() >= 0 {
		return new(big.Int).Lsh(n, 1)
	}
	z := new(big.Int).Neg(n)
	z.Lsh(z, 1)
	return z.Sub(z, big.NewInt(1))
}

func writeBigNatural(w *bitio.Writer, n *big.Int) error {
	mask := big.NewInt(0x7f)
	rest := new(big.Int).Set(n)
	chunk := new(big.Int)
	for {
		chunk.And(rest, mask)
		rest.Rsh(rest, 7)
		more := rest.Sign() != 0
		b := byte(chunk.Uint64())
		if more {
			b |= 0x80
		}
		if err := w.WriteBits(8, uint64(b)); err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}
