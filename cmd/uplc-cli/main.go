package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"

	"uplc.dev/core/builtin"
	"uplc.dev/core/flat"
	"uplc.dev/core/hashing"
	"uplc.dev/core/machine"
	"uplc.dev/core/store"
	"uplc.dev/core/syntax"
)

type Request struct {
	Op string `json:"op"`

	FlatHex string `json:"flat_hex,omitempty"`

	VersionMajor uint64 `json:"version_major,omitempty"`
	VersionMinor uint64 `json:"version_minor,omitempty"`
	VersionPatch uint64 `json:"version_patch,omitempty"`
	IntegerValue string `json:"integer_value,omitempty"`

	Language byte `json:"language,omitempty"`

	Fun     string   `json:"fun,omitempty"`
	Forces  int      `json:"forces,omitempty"`
	ArgsDec []string `json:"args_dec,omitempty"`

	HashHex string `json:"hash_hex,omitempty"`
}

type Response struct {
	Ok  bool   `json:"ok"`
	Err string `json:"err,omitempty"`

	FlatHex string `json:"flat_hex,omitempty"`
	HashHex string `json:"hash_hex,omitempty"`

	VersionMajor uint64 `json:"version_major,omitempty"`
	VersionMinor uint64 `json:"version_minor,omitempty"`
	VersionPatch uint64 `json:"version_patch,omitempty"`
	TermKind     string `json:"term_kind,omitempty"`

	Found bool `json:"found,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func main() {
	cacheDir := flag.String("cache-dir", DefaultCacheDir(), "directory holding the on-disk program cache")
	flag.Parse()

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}
	writeResp(os.Stdout, handleRequest(req, *cacheDir))
}

// handleRequest dispatches req.Op against the codec/hashing/cache packages
// and returns the JSON response main writes to stdout. Factored out of
// main so each op and error path is directly testable without going
// through stdin/stdout.
func handleRequest(req Request, cacheDir string) Response {
	switch req.Op {
	case "encode_integer":
		return handleEncodeInteger(req)
	case "decode":
		return handleDecode(req)
	case "hash":
		return handleHash(req)
	case "discharge_builtin":
		return handleDischargeBuiltin(req)
	case "cache_put":
		return handleCachePut(req, cacheDir)
	case "cache_get":
		return handleCacheGet(req, cacheDir)
	default:
		return Response{Ok: false, Err: "unknown op"}
	}
}

func handleEncodeInteger(req Request) Response {
	n, ok := new(big.Int).SetString(req.IntegerValue, 10)
	if !ok {
		return Response{Ok: false, Err: "bad integer_value"}
	}
	p := syntax.Program{
		Version: syntax.Version{Major: req.VersionMajor, Minor: req.VersionMinor, Patch: req.VersionPatch},
		Term:    syntax.Constant{Value: syntax.Integer{Value: n}},
	}
	b, err := flat.Encode(p)
	if err != nil {
		return Response{Ok: false, Err: flatErrString(err)}
	}
	return Response{Ok: true, FlatHex: hex.EncodeToString(b)}
}

func handleDecode(req Request) Response {
	b, err := hex.DecodeString(req.FlatHex)
	if err != nil {
		return Response{Ok: false, Err: "bad flat_hex"}
	}
	p, err := flat.Decode(b)
	if err != nil {
		return Response{Ok: false, Err: flatErrString(err)}
	}
	reenc, err := flat.Encode(p)
	if err != nil {
		return Response{Ok: false, Err: flatErrString(err)}
	}
	return Response{
		Ok:           true,
		VersionMajor: p.Version.Major,
		VersionMinor: p.Version.Minor,
		VersionPatch: p.Version.Patch,
		TermKind:     termKind(p.Term),
		FlatHex:      hex.EncodeToString(reenc),
	}
}

func handleHash(req Request) Response {
	b, err := hex.DecodeString(req.FlatHex)
	if err != nil {
		return Response{Ok: false, Err: "bad flat_hex"}
	}
	h, err := hashing.Blake2b224Provider{}.ScriptHash(req.Language, b)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}
	return Response{Ok: true, HashHex: hex.EncodeToString(h[:])}
}

func handleDischargeBuiltin(req Request) Response {
	fn, ok := builtin.FromName(req.Fun)
	if !ok {
		return Response{Ok: false, Err: "unknown fun"}
	}
	args := make([]machine.Value, 0, len(req.ArgsDec))
	for _, a := range req.ArgsDec {
		n, ok := new(big.Int).SetString(a, 10)
		if !ok {
			return Response{Ok: false, Err: "bad args_dec entry"}
		}
		args = append(args, machine.Con{Value: syntax.Integer{Value: n}})
	}
	term := machine.Discharge(machine.BuiltinValue{Fun: fn, Forces: req.Forces, Args: args})
	p := syntax.Program{
		Version: syntax.Version{Major: req.VersionMajor, Minor: req.VersionMinor, Patch: req.VersionPatch},
		Term:    term,
	}
	b, err := flat.Encode(p)
	if err != nil {
		return Response{Ok: false, Err: flatErrString(err)}
	}
	return Response{Ok: true, FlatHex: hex.EncodeToString(b), TermKind: termKind(term)}
}

func handleCachePut(req Request, cacheDir string) Response {
	hashArr, err := parseHash28(req.HashHex)
	if err != nil {
		return Response{Ok: false, Err: "bad hash_hex"}
	}
	flatBytes, err := hex.DecodeString(req.FlatHex)
	if err != nil {
		return Response{Ok: false, Err: "bad flat_hex"}
	}
	c, err := store.Open(cacheDir)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}
	defer func() { _ = c.Close() }()
	if err := c.Put(hashArr, flatBytes); err != nil {
		return Response{Ok: false, Err: err.Error()}
	}
	return Response{Ok: true}
}

func handleCacheGet(req Request, cacheDir string) Response {
	hashArr, err := parseHash28(req.HashHex)
	if err != nil {
		return Response{Ok: false, Err: "bad hash_hex"}
	}
	c, err := store.Open(cacheDir)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}
	defer func() { _ = c.Close() }()
	flatBytes, found, err := c.Get(hashArr)
	if err != nil {
		return Response{Ok: false, Err: err.Error()}
	}
	return Response{Ok: true, Found: found, FlatHex: hex.EncodeToString(flatBytes)}
}

func parseHash28(hashHex string) ([28]byte, error) {
	var out [28]byte
	b, err := hex.DecodeString(hashHex)
	if err != nil || len(b) != 28 {
		return out, fmt.Errorf("uplc-cli: hash must be 28 bytes hex-encoded")
	}
	copy(out[:], b)
	return out, nil
}

func flatErrString(err error) string {
	if ce, ok := err.(*flat.CodecError); ok {
		return string(ce.Code)
	}
	return err.Error()
}

func termKind(t syntax.Term) string {
	switch t.(type) {
	case syntax.Var:
		return "var"
	case syntax.Delay:
		return "delay"
	case syntax.Lambda:
		return "lambda"
	case syntax.Apply:
		return "apply"
	case syntax.Constant:
		return "constant"
	case syntax.Force:
		return "force"
	case syntax.ErrorTerm:
		return "error"
	case syntax.Builtin:
		return "builtin"
	default:
		return "unknown"
	}
}
