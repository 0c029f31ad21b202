// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import asn1 "x690.dev/asn1"

// tagStateKind discriminates the variants of tagState.
type tagStateKind uint8

const (
	// tagNone means the identifier octets of the next value have not been
	// parsed yet; the next read must parse them from d.buf at d.pos.
	tagNone tagStateKind = iota
	// tagCached means [Decoder.peekTag] has already parsed and consumed the
	// identifier octets from the input (advancing pos past them) and is
	// holding the result for whichever read call consumes it next. Only the
	// length octets, which immediately follow in the input, remain to parse.
	tagCached
	// tagImplicit means an enclosing IMPLICIT tag wrapper has already bound
	// the pc and length of the value about to be read: the wire carried only
	// the wrapper's own identifier and length octets, both already consumed,
	// so there is no tag to compare against and no further length octets to
	// parse — the bound length and pc are reused verbatim. A second, nested
	// IMPLICIT layer reuses the same bound (pc, length) again rather than
	// reading or checking anything: only the outermost wrapper's identifier
	// ever appears on the wire.
	tagImplicit
)

// tagState tracks how the (tag, pc) pair of the value about to be read is
// obtained: freshly parsed from the input, already parsed and cached by a
// one-token lookahead, or pre-bound by an enclosing IMPLICIT tag wrapper
// (which additionally pre-binds the length, since the wire has no further
// length octets to parse once tagging has gone implicit). This is what lets
// [Decoder.ReadOptional] and [Decoder.ReadTagged] peek at or override a tag
// without re-parsing it, and without needing to support backtracking once
// bytes have actually been consumed. The Implicit variant is deliberately
// not flattened into nullable fields alongside Cached's: it carries
// different information (no tag, but a length) and conflating the two would
// make it easy to compare a bound length against the wrong field.
type tagState struct {
	kind tagStateKind

	// tag and pc are valid when kind == tagCached.
	tag asn1.Tag
	pc  asn1.PC

	// implicitPC, length and indefinite are valid when kind == tagImplicit.
	implicitPC asn1.PC
	length     int
	indefinite bool
}
