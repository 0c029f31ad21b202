// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"math"

	asn1 "x690.dev/asn1"
	"x690.dev/asn1/internal/vlq"
)

// Decoder reads a single BER/CER/DER value tree out of a fixed, already
// complete byte slice. A Decoder is never safe for concurrent use, and a
// *Decoder handed to a callback by this package must not be retained past the
// callback's return.
type Decoder struct {
	buf   []byte
	pos   int
	mode  Mode
	tag   tagState
	depth int

	// indefinite is set on a Decoder scoped to the content of an
	// indefinite-length value, whose scope ends at an End-Of-Contents marker.
	indefinite bool

	// end, when >= 0, bounds the definite-length content region this Decoder
	// was scoped to by its parent; reads beyond it fail with ErrEOF even if
	// buf has more bytes after it (they belong to an enclosing value).
	end int
}

// Decode parses data under the given Mode and invokes f with a Decoder
// positioned at the start of data. Decode reports [ErrExtra] if f does not
// consume the whole of data.
func Decode(mode Mode, data []byte, f func(*Decoder) error) error {
	d := &Decoder{buf: data, mode: mode, end: len(data)}
	if err := f(d); err != nil {
		return err
	}
	if d.pos != d.end {
		return d.extra(d.pos)
	}
	return nil
}

func (d *Decoder) eof(pos int) error {
	return &Error{Kind: ErrEOF, Offset: pos, Msg: "unexpected end of input"}
}

func (d *Decoder) extra(pos int) error {
	return &Error{Kind: ErrExtra, Offset: pos, Msg: "unconsumed trailing data"}
}

func (d *Decoder) invalid(pos int, msg string) error {
	return &Error{Kind: ErrInvalid, Offset: pos, Msg: msg}
}

func (d *Decoder) overflow(pos int, msg string) error {
	return &Error{Kind: ErrIntegerOverflow, Offset: pos, Msg: msg}
}

// remaining reports how many bytes are left to read within this Decoder's
// current scope.
func (d *Decoder) remaining() int {
	return d.end - d.pos
}

// parseIdentifier parses the identifier octets at d.pos, without consulting
// or touching d.tag, and returns the number of bytes consumed.
func (d *Decoder) parseIdentifier() (tag asn1.Tag, pc asn1.PC, n int, err error) {
	if d.remaining() < 1 {
		return asn1.Tag{}, false, 0, d.eof(d.pos)
	}
	b := d.buf[d.pos]
	class := asn1.Class(b >> 6)
	pc = asn1.PC(b&0x20 != 0)
	low := uint64(b & 0x1f)

	if low != 0x1f {
		return asn1.Tag{Class: class, Number: low}, pc, 1, nil
	}

	num, vn, verr := vlq.ReadMinimal(d.buf[d.pos+1:d.end], 0)
	if verr != nil {
		if verr == vlq.ErrNotMinimal {
			return asn1.Tag{}, false, 0, d.invalid(d.pos, "non-minimal high-tag-number form")
		}
		if verr == vlq.ErrOverflow {
			return asn1.Tag{}, false, 0, d.overflow(d.pos, "tag number overflows 64 bits")
		}
		return asn1.Tag{}, false, 0, d.eof(d.pos)
	}
	if num < 31 {
		return asn1.Tag{}, false, 0, d.invalid(d.pos, "high-tag-number form used below 31")
	}
	return asn1.Tag{Class: class, Number: num}, pc, 1 + vn, nil
}

// parseLength parses the length octets at d.pos and returns the content
// length (meaningless if indefinite), whether the length is the indefinite
// form, and the number of bytes consumed.
func (d *Decoder) parseLength() (length int, indefinite bool, n int, err error) {
	if d.remaining() < 1 {
		return 0, false, 0, d.eof(d.pos)
	}
	b := d.buf[d.pos]
	if b == 0x80 {
		if d.mode == DER {
			return 0, false, 0, d.invalid(d.pos, "indefinite length not allowed in DER")
		}
		return 0, true, 1, nil
	}
	if b&0x80 == 0 {
		return int(b), false, 1, nil
	}
	numBytes := int(b & 0x7f)
	if numBytes == 0x7f {
		return 0, false, 0, d.invalid(d.pos, "reserved length form 0xff")
	}
	if d.remaining() < 1+numBytes {
		return 0, false, 0, d.eof(d.pos)
	}
	if numBytes > 0 && d.buf[d.pos+1] == 0x00 && numBytes > 1 {
		return 0, false, 0, d.invalid(d.pos, "length encoding has leading zero byte")
	}
	var v uint64
	for i := 0; i < numBytes; i++ {
		v = v<<8 | uint64(d.buf[d.pos+1+i])
		if v > uint64(math.MaxInt32) {
			return 0, false, 0, d.overflow(d.pos, "length too large")
		}
	}
	if d.mode == DER && v < 128 {
		return 0, false, 0, d.invalid(d.pos, "length should use short form")
	}
	return int(v), false, 1 + numBytes, nil
}

// peekTag resolves the (tag, pc) pair of the next value without consuming any
// length octets, caching the result in d.tag so a subsequent header read does
// not re-parse the identifier. It is the basis for OPTIONAL and CHOICE
// dispatch: once a tag has been peeked, the decoder commits to having
// consumed those identifier octets, matching the no-backtracking rule of a
// single-token-of-lookahead recursive-descent parser.
func (d *Decoder) peekTag() (asn1.Tag, asn1.PC, error) {
	switch d.tag.kind {
	case tagCached:
		return d.tag.tag, d.tag.pc, nil
	case tagImplicit:
		// No identifier ever reached the wire for this layer; there is
		// nothing meaningful to return as a tag.
		return asn1.Tag{}, d.tag.implicitPC, nil
	}
	tag, pc, n, err := d.parseIdentifier()
	if err != nil {
		return asn1.Tag{}, false, err
	}
	d.pos += n
	d.tag = tagState{kind: tagCached, tag: tag, pc: pc}
	return tag, pc, nil
}

// header resolves the (tag, pc, length, indefinite) tuple of the next value
// and reports whether it came from an enclosing IMPLICIT tag override rather
// than the wire. If d.tag already holds a tagImplicit override, nothing is
// read from the input at all: the override's pc and length were already
// bound (by whichever call first parsed them) and are returned verbatim,
// with tag reported as the zero value since none exists at this layer.
// Otherwise the identifier (if not already cached) and length octets are
// consumed from the input. header clears d.tag afterwards: the header is now
// fully consumed.
func (d *Decoder) header() (tag asn1.Tag, pc asn1.PC, length int, indefinite bool, implicit bool, err error) {
	if d.tag.kind == tagImplicit {
		pc, length, indefinite = d.tag.implicitPC, d.tag.length, d.tag.indefinite
		d.tag = tagState{}
		return asn1.Tag{}, pc, length, indefinite, true, nil
	}

	tag, pc, err = d.peekTag()
	if err != nil {
		return
	}
	d.tag = tagState{}

	ln, indef, n, err := d.parseLength()
	if err != nil {
		return
	}
	d.pos += n
	if d.mode == CER && !indef && pc == asn1.Constructed {
		return asn1.Tag{}, false, 0, false, false, d.invalid(d.pos, "CER requires indefinite length for a constructed encoding")
	}
	return tag, pc, ln, indef, false, nil
}

// readPrimitive reads a primitive-encoded value expected to carry tag want,
// returning its raw content octets. A constructed or indefinite-length
// encoding is always rejected; types that accept the constructed (chunked)
// form, such as [Decoder.OctetString], parse their header themselves.
func (d *Decoder) readPrimitive(want asn1.Tag) ([]byte, error) {
	tag, pc, length, indefinite, implicit, err := d.header()
	if err != nil {
		return nil, err
	}
	if !implicit && tag != want {
		return nil, d.invalid(d.pos, "unexpected tag "+tag.String()+", want "+want.String())
	}
	if pc == asn1.Constructed {
		return nil, d.invalid(d.pos, "expected primitive encoding of "+want.String())
	}
	if indefinite {
		return nil, d.invalid(d.pos, "indefinite length not allowed for primitive encoding")
	}
	return d.readRawContent(length)
}

func (d *Decoder) readRawContent(length int) ([]byte, error) {
	if length < 0 || d.remaining() < length {
		return nil, d.eof(d.pos)
	}
	content := d.buf[d.pos : d.pos+length]
	d.pos += length
	return content, nil
}

// enterConstructed consumes the header of a constructed value expected to
// carry tag want, runs body with a Decoder scoped to its content, and
// verifies body consumed exactly that content (for a definite length) or
// left the decoder positioned at the End-Of-Contents marker (for an
// indefinite length, BER/CER only), which enterConstructed then consumes.
func (d *Decoder) enterConstructed(want asn1.Tag, body func(*Decoder) error) error {
	tag, pc, length, indefinite, implicit, err := d.header()
	if err != nil {
		return err
	}
	if !implicit && tag != want {
		return d.invalid(d.pos, "unexpected tag "+tag.String()+", want "+want.String())
	}
	if pc == asn1.Primitive {
		return d.invalid(d.pos, "expected constructed encoding of "+want.String())
	}
	return d.runConstructedBody(length, indefinite, body)
}

func (d *Decoder) runConstructedBody(length int, indefinite bool, body func(*Decoder) error) error {
	if d.depth >= MaxDepth {
		return &Error{Kind: ErrStackOverflow, Offset: d.pos, Msg: "maximum nesting depth exceeded"}
	}

	if indefinite {
		// The indefinite-length value's EOC marker cannot lie past whatever
		// bound already applies to d itself (d.end), whether that is the
		// full buffer (top-level or another indefinite-length enclosure) or
		// a narrower definite-length enclosure.
		child := &Decoder{buf: d.buf, pos: d.pos, mode: d.mode, depth: d.depth + 1, end: d.end, indefinite: true}
		if err := body(child); err != nil {
			return err
		}
		// body must leave the child positioned exactly at the EOC marker.
		if child.remaining() < 2 || child.buf[child.pos] != 0x00 || child.buf[child.pos+1] != 0x00 {
			return d.invalid(child.pos, "missing end-of-contents marker")
		}
		d.pos = child.pos + 2
		return nil
	}

	if length < 0 || d.remaining() < length {
		return d.eof(d.pos)
	}
	child := &Decoder{buf: d.buf, pos: d.pos, mode: d.mode, depth: d.depth + 1, end: d.pos + length}
	if err := body(child); err != nil {
		return err
	}
	if child.pos != child.end {
		return d.extra(child.pos)
	}
	d.pos = child.end
	return nil
}

// AtEnd reports whether this Decoder's scope (an enclosing definite-length
// constructed value, or the top-level input) has been fully consumed. It is
// used to implement "zero or more elements" loops, e.g. for SEQUENCE OF.
func (d *Decoder) AtEnd() bool {
	if d.remaining() == 0 {
		return true
	}
	if d.indefinite || d.end == len(d.buf) {
		// Indefinite-length or top-level scope: EOC marker also ends it.
		return d.remaining() >= 2 && d.buf[d.pos] == 0x00 && d.buf[d.pos+1] == 0x00 && d.tag.kind == tagNone
	}
	return false
}

// Mode returns the encoding rule this Decoder was constructed with.
func (d *Decoder) Mode() Mode { return d.mode }

// Offset returns the current byte offset within the original input, for
// callers that want to report their own errors with [Error.Offset].
func (d *Decoder) Offset() int { return d.pos }
