// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

//region [UNIVERSAL 3] BIT STRING

// BitString represents the ASN.1 BIT STRING type: a sequence of bits, padded
// up to a byte boundary. UnusedBits counts the padding bits in the final byte
// of Bytes and must be in 0..7. If Bytes is empty, UnusedBits must be 0. The
// low UnusedBits bits of the final byte of Bytes must be zero — this is
// enforced by [x690.dev/asn1/ber.Encoder.WriteBitString] and validated by
// [x690.dev/asn1/ber.Decoder.BitString].
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	UnusedBits int
	Bytes      []byte
}

// Len returns the number of bits represented by s.
func (s BitString) Len() int {
	if len(s.Bytes) == 0 {
		return 0
	}
	return len(s.Bytes)*8 - s.UnusedBits
}

// At returns the bit at index i (0 is the most significant bit of the first
// byte). At panics if i is out of range.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.Len() {
		panic("asn1: BitString index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String renders s as a sequence of '0'/'1' characters.
func (s BitString) String() string {
	var b strings.Builder
	b.Grow(s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.At(i) == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// ObjectIdentifier represents the ASN.1 OBJECT IDENTIFIER type: a nonempty,
// ordered sequence of sub-identifiers. The first sub-identifier must be 0, 1
// or 2; if it is 0 or 1, the second sub-identifier must be in 0..39. See
// section 32 of Rec. ITU-T X.680 and [Rec. ITU-T X.660].
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint64

// Equal reports whether oid and other identify the same arc sequence.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// Valid reports whether oid satisfies the structural invariants of an OID:
// nonempty, first arc in {0,1,2}, and (when the first arc is 0 or 1) second
// arc in 0..39.
func (oid ObjectIdentifier) Valid() bool {
	if len(oid) == 0 || oid[0] > 2 {
		return false
	}
	if oid[0] < 2 && len(oid) > 1 && oid[1] >= 40 {
		return false
	}
	return true
}

// String returns the dot-separated notation of oid, e.g. "1.2.840.113549".
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)
	buf := make([]byte, 0, 20)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendUint(buf, v, 10))
	}
	return s.String()
}

//endregion

//region [UNIVERSAL 19] PrintableString

// printableCharset is the set of characters permitted in a PrintableString,
// per section 41 of Rec. ITU-T X.680: letters, digits, space, and
// '()+,-./:=?.
const printableCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789 '()+,-./:=?"

// IsPrintableByte reports whether b is part of the ASN.1 PrintableString
// charset.
func IsPrintableByte(b byte) bool {
	return strings.IndexByte(printableCharset, b) >= 0
}

// PrintableString represents the ASN.1 PrintableString type. Its content is
// restricted to [IsPrintableByte]; construct one via
// [x690.dev/asn1/ber.Decoder.PrintableString] or validate a literal with
// [PrintableString.Valid].
type PrintableString string

// Valid reports whether every byte of s is part of the PrintableString
// charset.
func (s PrintableString) Valid() bool {
	for i := 0; i < len(s); i++ {
		if !IsPrintableByte(s[i]) {
			return false
		}
	}
	return true
}

//endregion

//region [UNIVERSAL 23/24] UTCTime / GeneralizedTime

// Calendar is the optional parsed representation of a [UTCTime] or
// [GeneralizedTime] value: year/month/day/hour/minute/second fields, an
// optional fractional-second component, and an optional UTC offset.
type Calendar struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Nanosecond           int  // fractional seconds, normalized to nanoseconds
	FracDigits           int  // number of fractional digits as encoded (GeneralizedTime only)
	OffsetSpecified      bool // false iff the encoding carried no "Z" or numeric offset
	OffsetSeconds        int  // signed UTC offset in seconds, meaningful only if OffsetSpecified
}

// UTCTime represents the ASN.1 UTCTime type. The raw content octets are
// retained verbatim; [x690.dev/asn1/ber.ParseUTCTime] parses them into a
// [Calendar].
type UTCTime []byte

// GeneralizedTime represents the ASN.1 GeneralizedTime type. The raw content
// octets are retained verbatim; [x690.dev/asn1/ber.ParseGeneralizedTime]
// parses them into a [Calendar].
type GeneralizedTime []byte

//endregion

//region TaggedValue — opaque DER pass-through

// TaggedValue is an opaque, already-framed DER fragment: a (tag, pc,
// payload) triple used to pass through values whose schema the caller does
// not know ahead of time, or to re-emit a captured value unchanged. See
// [x690.dev/asn1/ber.Decoder.TaggedValue] and
// [x690.dev/asn1/ber.Encoder.WriteTaggedValue].
type TaggedValue struct {
	Tag     Tag
	PC      PC
	Payload []byte
}

//endregion

//region SetOf — canonical unordered collection

// SetOf is an unordered collection of T. Its only additional invariant over a
// plain slice is at the wire level: CER/DER require that the encoded elements
// be emitted in ascending lexicographic order of their own encodings. See
// [x690.dev/asn1/ber.WriteSetOf] and [x690.dev/asn1/ber.ReadSetOf].
type SetOf[T any] []T

// SortEncodings sorts raw element encodings into the canonical CER/DER order:
// ascending lexicographic byte order, with a shorter encoding sorting before
// a longer one that shares its full length as a prefix ("shorter-first").
// This is a free function (rather than a SetOf method) because it operates
// on the already-encoded byte strings, not on the typed elements themselves.
func SortEncodings(encodings [][]byte) {
	slices.SortFunc(encodings, func(a, b []byte) int {
		return cmp.Compare(string(a), string(b))
	})
}

//endregion
