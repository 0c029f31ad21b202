// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements the Basic, Canonical and Distinguished Encoding
// Rules for ASN.1, as specified in [Rec. ITU-T X.690]. It decodes a complete,
// already-buffered byte slice (never an incremental [io.Reader]) and encodes
// into a freshly allocated byte slice.
//
// # Decoding
//
// A caller drives a [Decoder] through a sequence of typed read calls that
// mirror the schema of the message being decoded, in the style of a
// hand-written recursive-descent parser:
//
//	err := ber.Decode(ber.DER, data, func(d *ber.Decoder) error {
//		return d.ReadSequence(func(d *ber.Decoder) error {
//			name, err := d.UTF8String()
//			if err != nil {
//				return err
//			}
//			age, err := d.Int64()
//			if err != nil {
//				return err
//			}
//			...
//		})
//	})
//
// There is no reflection and no struct-tag schema: the caller's callback
// nesting is the schema. This makes decoding a CHOICE, an OPTIONAL field, or a
// message whose exact shape is only partially known straightforward, at the
// cost of requiring the caller to know the schema up front — there is no
// generic "decode anything" entry point other than [Decoder.TaggedValue],
// which captures a value opaquely without interpreting it.
//
// # Encoding
//
// An [Encoder] is the mirror image: the caller issues typed write calls in
// schema order, and [Encode] returns the accumulated bytes. Every entry point
// encodes in DER-canonical form regardless of the configured [Mode] value
// used for decoding — this package does not implement the relaxed,
// non-canonical forms of BER or CER as *output*; Mode only selects a decoder's
// leniency and canonicity checks.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package ber

// Mode selects which of the three ASN.1 encoding rules governs decoding:
// which length forms, string-concatenation forms, and canonicity checks are
// accepted. Mode has no effect on encoding: [Encoder] always emits the
// canonical (DER) form.
type Mode uint8

const (
	// BER is the most permissive mode: both definite and indefinite length
	// forms are accepted, constructed encodings of string types may nest
	// arbitrarily, and the BOOLEAN, INTEGER and SET OF canonicity checks of
	// CER and DER are not applied.
	BER Mode = iota
	// CER rejects any constructed encoding that uses definite length
	// (constructed values must use the indefinite form) and applies the same
	// BOOLEAN, INTEGER and SET OF canonicity checks as DER. It does not check
	// the chunk sizes of constructed string encodings: chunks of any length
	// are accepted.
	CER
	// DER is the strictest mode: lengths must use the minimal definite form,
	// SET OF elements must appear in canonical order, BOOLEAN content must be
	// 0x00 or 0xff, and no constructed string encodings are accepted.
	DER
)

// String returns the canonical name of m.
func (m Mode) String() string {
	switch m {
	case BER:
		return "BER"
	case CER:
		return "CER"
	case DER:
		return "DER"
	default:
		return "Mode(?)"
	}
}

// MaxDepth bounds the recursion depth of nested constructed values that
// [Decode] will follow before reporting [ErrStackOverflow]. It protects
// against resource exhaustion from a maliciously or accidentally deeply
// nested input.
const MaxDepth = 100
