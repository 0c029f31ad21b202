// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"math/big"

	asn1 "x690.dev/asn1"
	"x690.dev/asn1/internal/vlq"
)

// Encoder accumulates the DER encoding of a value tree. Every entry point on
// Encoder emits canonical (DER) output; there is no mode selection on the
// encode side, since this package does not implement non-canonical BER/CER
// output.
type Encoder struct {
	buf []byte

	// implicitTag, when non-nil, overrides the identifier octets the next
	// writeTLV call emits, implementing IMPLICIT tagging.
	implicitTag *asn1.Tag
	implicitPC  asn1.PC
}

// Encode invokes f with a fresh Encoder and returns the accumulated bytes.
func Encode(f func(*Encoder) error) ([]byte, error) {
	e := &Encoder{}
	if err := f(e); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// Bytes returns the bytes accumulated so far. It is primarily useful to
// callers implementing a custom [Encodable] that needs to measure its own
// output length ahead of a parent's deferred length field.
func (e *Encoder) Bytes() []byte { return e.buf }

// writeIdentifier appends the identifier octets for (tag, pc) to e.buf,
// honoring any pending implicit-tag override.
func (e *Encoder) writeIdentifier(tag asn1.Tag, pc asn1.PC) {
	if e.implicitTag != nil {
		tag = *e.implicitTag
		pc = e.implicitPC
		e.implicitTag = nil
	}
	var b byte
	b |= byte(tag.Class) << 6
	if pc == asn1.Constructed {
		b |= 0x20
	}
	if tag.Number < 0x1f {
		b |= byte(tag.Number)
		e.buf = append(e.buf, b)
		return
	}
	b |= 0x1f
	e.buf = append(e.buf, b)
	e.buf = vlq.Append(e.buf, tag.Number)
}

// writeLength appends the minimal definite-form DER length octets for n.
func (e *Encoder) writeLength(n int) {
	if n < 0x80 {
		e.buf = append(e.buf, byte(n))
		return
	}
	var tmp [8]byte
	i := len(tmp)
	v := uint64(n)
	for v > 0 {
		i--
		tmp[i] = byte(v)
		v >>= 8
	}
	numBytes := len(tmp) - i
	e.buf = append(e.buf, byte(0x80|numBytes))
	e.buf = append(e.buf, tmp[i:]...)
}

// writeTLV appends the complete TLV encoding of (tag, pc, content) to e.buf.
func (e *Encoder) writeTLV(tag asn1.Tag, pc asn1.PC, content []byte) {
	e.writeIdentifier(tag, pc)
	e.writeLength(len(content))
	e.buf = append(e.buf, content...)
}

// writeConstructed writes tag as a constructed header whose content is
// whatever body appends to a fresh child Encoder. The child's accumulated
// bytes become the deferred-length content: its length is only known, and
// only written, once body returns. This is the constructed-value counterpart
// of a primitive [writeTLV] call.
func (e *Encoder) writeConstructed(tag asn1.Tag, body func(*Encoder) error) error {
	implicitTag, implicitPC := e.implicitTag, e.implicitPC
	e.implicitTag = nil

	child := &Encoder{}
	if err := body(child); err != nil {
		return err
	}

	if implicitTag != nil {
		e.implicitTag, e.implicitPC = implicitTag, implicitPC
	}
	e.writeTLV(tag, asn1.Constructed, child.buf)
	return nil
}

// WriteBool writes a BOOLEAN value.
func (e *Encoder) WriteBool(v bool) {
	var b byte
	if v {
		b = 0xff
	}
	e.writeTLV(asn1.TagBoolean, asn1.Primitive, []byte{b})
}

// WriteInt64 writes an INTEGER value from an int64.
func (e *Encoder) WriteInt64(v int64) {
	e.writeTLV(asn1.TagInteger, asn1.Primitive, encodeSignedInt(v))
}

func encodeSignedInt(v int64) []byte {
	if v >= -128 && v <= 127 {
		return []byte{byte(v)}
	}
	var tmp [8]byte
	n := 8
	for {
		tmp[n-1] = byte(v)
		n--
		v >>= 8
		if (v == 0 && tmp[n]&0x80 == 0) || (v == -1 && tmp[n]&0x80 != 0) {
			break
		}
	}
	return tmp[n:]
}

// WriteBigInt writes an INTEGER value of arbitrary magnitude.
func (e *Encoder) WriteBigInt(v *big.Int) {
	e.writeTLV(asn1.TagInteger, asn1.Primitive, encodeBigInt(v))
}

// encodeBigInt returns the minimal two's-complement big-endian encoding of v.
func encodeBigInt(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0x00}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	// Two's complement of a negative value: bytes(-v-1) with every bit
	// inverted, padded with a leading zero byte first if that would leave
	// the sign bit ambiguous.
	m := new(big.Int).Neg(v)
	m.Sub(m, big.NewInt(1))
	b := m.Bytes()
	switch {
	case len(b) == 0:
		b = []byte{0x00}
	case b[0]&0x80 != 0:
		b = append([]byte{0x00}, b...)
	}
	for i := range b {
		b[i] = ^b[i]
	}
	return b
}

// WriteNull writes a NULL value.
func (e *Encoder) WriteNull() {
	e.writeTLV(asn1.TagNull, asn1.Primitive, nil)
}

// WriteBitString writes a BIT STRING value in its primitive form.
func (e *Encoder) WriteBitString(v asn1.BitString) error {
	if v.UnusedBits < 0 || v.UnusedBits > 7 {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "BitString.UnusedBits out of range"}
	}
	if len(v.Bytes) == 0 && v.UnusedBits != 0 {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "empty BitString must have zero UnusedBits"}
	}
	if v.UnusedBits > 0 && v.Bytes[len(v.Bytes)-1]&(byte(1)<<uint(v.UnusedBits)-1) != 0 {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "unused bits of BitString must be zero"}
	}
	content := make([]byte, 1+len(v.Bytes))
	content[0] = byte(v.UnusedBits)
	copy(content[1:], v.Bytes)
	e.writeTLV(asn1.TagBitString, asn1.Primitive, content)
	return nil
}

// WriteOctetString writes an OCTET STRING value in its primitive form.
func (e *Encoder) WriteOctetString(v []byte) {
	e.writeTLV(asn1.TagOctetString, asn1.Primitive, v)
}

// WriteObjectIdentifier writes an OBJECT IDENTIFIER value.
func (e *Encoder) WriteObjectIdentifier(oid asn1.ObjectIdentifier) error {
	if !oid.Valid() {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "invalid ObjectIdentifier"}
	}
	var content []byte
	content = vlq.Append(content, oid[0]*40+oid[1])
	for _, arc := range oid[2:] {
		content = vlq.Append(content, arc)
	}
	e.writeTLV(asn1.TagOID, asn1.Primitive, content)
	return nil
}

// WriteUTF8String writes a UTF8String value.
func (e *Encoder) WriteUTF8String(s string) {
	e.writeTLV(asn1.TagUTF8String, asn1.Primitive, []byte(s))
}

// WritePrintableString writes a PrintableString value.
func (e *Encoder) WritePrintableString(s asn1.PrintableString) error {
	if !s.Valid() {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "PrintableString contains a disallowed character"}
	}
	e.writeTLV(asn1.TagPrintableString, asn1.Primitive, []byte(s))
	return nil
}

// WriteIA5String writes an IA5String value.
func (e *Encoder) WriteIA5String(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return &Error{Kind: ErrInvalid, Offset: -1, Msg: "IA5String contains a non-ASCII byte"}
		}
	}
	e.writeTLV(asn1.TagIA5String, asn1.Primitive, []byte(s))
	return nil
}

// WriteSequence writes a SEQUENCE whose elements are produced by body.
func (e *Encoder) WriteSequence(body func(*Encoder) error) error {
	return e.writeConstructed(asn1.TagSequence, body)
}

// WriteSet writes a SET whose elements are produced by body, in the order
// body writes them. Unlike [WriteSetOf], WriteSet does not reorder its
// content: use it when the SET's members have distinct tags (as in most
// X.680 SET types) rather than being a homogeneous SET OF.
func (e *Encoder) WriteSet(body func(*Encoder) error) error {
	return e.writeConstructed(asn1.TagSet, body)
}

// WriteTagged writes a value wrapped in tag. For [asn1.Explicit] tagging, v
// is encoded as a normal, self-describing TLV nested inside a new
// constructed TLV carrying tag. For [asn1.Implicit] tagging, v's own
// identifier octets are replaced by tag's (its length and content are
// unchanged); v must use pc to describe whether its own (replaced) encoding
// is primitive or constructed.
//
// WriteTagged nests: if an enclosing IMPLICIT override is already pending
// (this call is itself inside v of another WriteTagged with
// [asn1.Implicit]), tag never reaches the wire — only the outermost
// wrapper's identifier is ever written — so the pending override is left in
// place rather than overwritten, matching the decode side's tagImplicit
// pass-through.
func (e *Encoder) WriteTagged(tag asn1.Tag, typ asn1.TagType, pc asn1.PC, v func(*Encoder) error) error {
	if typ == asn1.Explicit {
		return e.writeConstructed(tag, v)
	}
	if e.implicitTag != nil {
		return v(e)
	}
	e.implicitTag = &tag
	e.implicitPC = pc
	return v(e)
}

// WriteTaggedValue re-emits a captured [asn1.TaggedValue] verbatim.
func (e *Encoder) WriteTaggedValue(v asn1.TaggedValue) {
	e.writeTLV(v.Tag, v.PC, v.Payload)
}

// WriteSetOf encodes each element of elems via encode, then reorders their
// raw TLV encodings into ascending canonical byte order before appending
// them, as DER requires for SET OF. This is the encode-side counterpart of
// [ReadSetOf]'s canonical-order check.
func WriteSetOf[T any](e *Encoder, elems []T, encode func(*Encoder, T) error) error {
	encodings := make([][]byte, len(elems))
	for i, v := range elems {
		child := &Encoder{}
		if err := encode(child, v); err != nil {
			return err
		}
		encodings[i] = child.buf
	}
	asn1.SortEncodings(encodings)
	content := make([]byte, 0, totalLen(encodings))
	for _, enc := range encodings {
		content = append(content, enc...)
	}
	e.writeTLV(asn1.TagSet, asn1.Constructed, content)
	return nil
}

func totalLen(bs [][]byte) int {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	return n
}
