package flat

import (
	"errors"
	"fmt"

	"uplc.dev/core/bitio"
)

// ErrorCode names one of the terminal failure modes the flat codec can
// raise (spec.md §7). Two entries — MalformedConstantTagList's sibling
// UnsupportedConstant and TrailingGarbage — are not in the spec's table
// verbatim but are required by invariants it states elsewhere: §9 requires
// encoders to reject the internal-only Char constant, and §3/§6 require
// decoders to reject trailing bytes after the end marker.
type ErrorCode string

const (
	BitOverflow              ErrorCode = "BIT_OVERFLOW"
	UnknownTermTag           ErrorCode = "UNKNOWN_TERM_TAG"
	UnknownConstantTag       ErrorCode = "UNKNOWN_CONSTANT_TAG"
	UnknownBuiltin           ErrorCode = "UNKNOWN_BUILTIN"
	MalformedConstantTagList ErrorCode = "MALFORMED_CONSTANT_TAG_LIST"
	EndOfStream              ErrorCode = "END_OF_STREAM"
	InvalidUtf8              ErrorCode = "INVALID_UTF8"
	UnsupportedConstant      ErrorCode = "UNSUPPORTED_CONSTANT"
	TrailingGarbage          ErrorCode = "TRAILING_GARBAGE"
)

// CodecError is the one error type the flat codec returns. A blueprint-
// style external collaborator (out of scope here, spec.md §1/§6) can
// switch on Code to attach source spans and help text without parsing
// message strings.
type CodecError struct {
	Code ErrorCode
	Tag  byte
	Msg  string
}

func (e *CodecError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func codecErr(code ErrorCode, msg string) error {
	return &CodecError{Code: code, Msg: msg}
}

func codecErrTag(code ErrorCode, tag byte, msg string) error {
	return &CodecError{Code: code, Tag: tag, Msg: msg}
}

// wrap normalizes a bitio-level error into the codec's CodecError surface
// so callers never need to reach into the bitio package directly.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var overflow *bitio.OverflowError
	if errors.As(err, &overflow) {
		return codecErr(BitOverflow, overflow.Error())
	}
	var eof *bitio.EndOfStreamError
	if errors.As(err, &eof) {
		return codecErr(EndOfStream, eof.Error())
	}
	return codecErr(TrailingGarbage, err.Error())
}
