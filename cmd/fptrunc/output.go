package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

type encoder interface {
	Encode(rec record) error
	Flush() error
}

func encoderFor(name string) (func(w io.Writer) encoder, error) {
	switch name {
	case "text":
		return newTextEncoder, nil
	case "json":
		return newJSONEncoder, nil
	case "cbor":
		return newCBOREncoder, nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}

type textEncoder struct {
	w *bufio.Writer
}

func newTextEncoder(w io.Writer) encoder {
	return &textEncoder{w: bufio.NewWriter(w)}
}

func (e *textEncoder) Encode(rec record) error {
	_, err := fmt.Fprintf(e.w, "%s\t%s\t%s -> %s\t%s\n", rec.Input, rec.Class, rec.Source, rec.Result, rec.Value)
	return err
}

func (e *textEncoder) Flush() error {
	return e.w.Flush()
}

// jsonEncoder writes one json object per line.
type jsonEncoder struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func newJSONEncoder(w io.Writer) encoder {
	bw := bufio.NewWriter(w)
	return &jsonEncoder{w: bw, enc: json.NewEncoder(bw)}
}

func (e *jsonEncoder) Encode(rec record) error {
	return e.enc.Encode(rec)
}

func (e *jsonEncoder) Flush() error {
	return e.w.Flush()
}

// cborEncoder writes a sequence of cbor maps (RFC 8742).
type cborEncoder struct {
	w   *bufio.Writer
	enc *cbor.Encoder
}

func newCBOREncoder(w io.Writer) encoder {
	bw := bufio.NewWriter(w)
	return &cborEncoder{w: bw, enc: cbor.NewEncoder(bw)}
}

func (e *cborEncoder) Encode(rec record) error {
	return e.enc.Encode(rec)
}

func (e *cborEncoder) Flush() error {
	return e.w.Flush()
}
