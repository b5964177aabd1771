package flat

import (
	"math/big"
	"unicode/utf8"

	"uplc.dev/core/bitio"
	"uplc.dev/core/builtin"
	"uplc.dev/core/syntax"
)

// Decode parses b as a flat-encoded Program. It rejects unknown tags,
// malformed constant-tag lists, invalid UTF-8 in string constants, and any
// trailing bytes after the end marker (spec.md §4.3 Decoding algorithm).
func Decode(b []byte) (syntax.Program, error) {
	r := bitio.NewReader(b)
	major, err := r.ReadNatural()
	if err != nil {
		return syntax.Program{}, wrap(err)
	}
	minor, err := r.ReadNatural()
	if err != nil {
		return syntax.Program{}, wrap(err)
	}
	patch, err := r.ReadNatural()
	if err != nil {
		return syntax.Program{}, wrap(err)
	}
	term, err := decodeTerm(r)
	if err != nil {
		return syntax.Program{}, err
	}
	if err := r.ReadEndMarker(); err != nil {
		return syntax.Program{}, wrap(err)
	}
	return syntax.Program{
		Version: syntax.Version{Major: major, Minor: minor, Patch: patch},
		Term:    term,
	}, nil
}

func readTermTag(r *bitio.Reader) (byte, error) {
	tag, err := r.ReadBits(termTagWidth)
	if err != nil {
		return 0, wrap(err)
	}
	return byte(tag), nil
}

func decodeTerm(r *bitio.Reader) (syntax.Term, error) {
	tag, err := readTermTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		idx, err := r.ReadNatural()
		if err != nil {
			return nil, wrap(err)
		}
		return syntax.Var{Index: idx}, nil
	case 1:
		body, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return syntax.Delay{Body: body}, nil
	case 2:
		body, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return syntax.Lambda{Body: body}, nil
	case 3:
		fn, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		arg, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return syntax.Apply{Function: fn, Argument: arg}, nil
	case 4:
		c, err := decodeConstant(r)
		if err != nil {
			return nil, err
		}
		return syntax.Constant{Value: c}, nil
	case 5:
		body, err := decodeTerm(r)
		if err != nil {
			return nil, err
		}
		return syntax.Force{Body: body}, nil
	case 6:
		return syntax.ErrorTerm{}, nil
	case 7:
		fnTag, err := r.ReadBits(builtin.TagWidth)
		if err != nil {
			return nil, wrap(err)
		}
		f, ok := builtin.FromTag(byte(fnTag))
		if !ok {
			return nil, codecErrTag(UnknownBuiltin, byte(fnTag), "built-in id outside the enumerated set")
		}
		return syntax.Builtin{Fun: f}, nil
	default:
		return nil, codecErrTag(UnknownTermTag, tag, "term tag must be in 0..7")
	}
}

func decodeConstant(r *bitio.Reader) (syntax.ConstantValue, error) {
	tags, err := r.ReadTagList(constTagWidth)
	if err != nil {
		return nil, wrap(err)
	}
	if len(tags) != 1 {
		return nil, codecErr(MalformedConstantTagList, "constant-tag list must have exactly one item")
	}
	switch tags[0] {
	case 0:
		n, err := decodeInteger(r)
		if err != nil {
			return nil, err
		}
		return syntax.Integer{Value: n}, nil
	case 1:
		b, err := r.ReadByteString()
		if err != nil {
			return nil, wrap(err)
		}
		return syntax.ByteString{Value: b}, nil
	case 2:
		b, err := r.ReadByteString()
		if err != nil {
			return nil, wrap(err)
		}
		if !utf8.Valid(b) {
			return nil, codecErr(InvalidUtf8, "string constant is not valid UTF-8")
		}
		return syntax.String{Value: string(b)}, nil
	case 3:
		return syntax.Unit{}, nil
	case 4:
		bit, err := r.ReadBits(1)
		if err != nil {
			return nil, wrap(err)
		}
		return syntax.Bool{Value: bit == 1}, nil
	default:
		return nil, codecErrTag(UnknownConstantTag, tags[0], "constant tag must be in 0..4")
	}
}

func decodeInteger(r *bitio.Reader) (*big.Int, error) {
	z, err := readBigNatural(r)
	if err != nil {
		return nil, wrap(err)
	}
	return zigZagDecode(z), nil
}

func zigZagDecode(z *big.Int) *big.Int {
	if z.Bit(0) == 0 {
		return new(big.Int).Rsh(z, 1)
	}
	n := new(big.Int).Add(z, big.NewInt(1))
	n.Rsh(n, 1)
	return n.Neg(n)
}

func readBigNatural(r *bitio.Reader) (*big.Int, error) {
	result := big.NewInt(0)
	chunk := new(big.Int)
	shift := uint(0)
	for {
		b, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		chunk.SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		result.Or(result, chunk)
		shift += 7
		if b&0x80 == 0 {
			return result, nil
		}
	}
}
