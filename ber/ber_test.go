// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"math/big"
	"testing"

	asn1 "x690.dev/asn1"
)

func TestModeString(t *testing.T) {
	tests := map[Mode]string{BER: "BER", CER: "CER", DER: "DER", Mode(99): "Mode(?)"}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, got, want)
		}
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		data, err := Encode(func(e *Encoder) error {
			e.WriteBool(v)
			return nil
		})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		err = Decode(DER, data, func(d *Decoder) error {
			got, err := d.Bool()
			if err != nil {
				return err
			}
			if got != v {
				t.Errorf("got %v, want %v", got, v)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, -128, -129, 1 << 40, -(1 << 40)}
	for _, v := range values {
		data, err := Encode(func(e *Encoder) error {
			e.WriteInt64(v)
			return nil
		})
		if err != nil {
			t.Fatalf("Encode(%d): %v", v, err)
		}
		var got int64
		err = Decode(DER, data, func(d *Decoder) error {
			var err error
			got, err = d.Int64()
			return err
		})
		if err != nil {
			t.Fatalf("Decode(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
	}
}

func TestBigIntRoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(-1),
		new(big.Int).Lsh(big.NewInt(1), 256),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 256)),
	}
	for _, v := range values {
		data, err := Encode(func(e *Encoder) error {
			e.WriteBigInt(v)
			return nil
		})
		if err != nil {
			t.Fatalf("Encode(%v): %v", v, err)
		}
		var got *big.Int
		err = Decode(DER, data, func(d *Decoder) error {
			var err error
			got, err = d.BigInt()
			return err
		})
		if err != nil {
			t.Fatalf("Decode(%v): %v", v, err)
		}
		if got.Cmp(v) != 0 {
			t.Errorf("got %v, want %v", got, v)
		}
	}
}

func TestOctetStringRoundTrip(t *testing.T) {
	want := []byte("hello, world")
	data, err := Encode(func(e *Encoder) error {
		e.WriteOctetString(want)
		return nil
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got []byte
	err = Decode(DER, data, func(d *Decoder) error {
		var err error
		got, err = d.OctetString()
		return err
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBitStringRoundTrip(t *testing.T) {
	want := asn1.BitString{UnusedBits: 3, Bytes: []byte{0b1010_1000}}
	data, err := Encode(func(e *Encoder) error {
		return e.WriteBitString(want)
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got asn1.BitString
	err = Decode(DER, data, func(d *Decoder) error {
		var err error
		got, err = d.BitString()
		return err
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.UnusedBits != want.UnusedBits || string(got.Bytes) != string(want.Bytes) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	want := asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1}
	data, err := Encode(func(e *Encoder) error {
		return e.WriteObjectIdentifier(want)
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got asn1.ObjectIdentifier
	err = Decode(DER, data, func(d *Decoder) error {
		var err error
		got, err = d.ObjectIdentifier()
		return err
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	data, err := Encode(func(e *Encoder) error {
		return e.WriteSequence(func(e *Encoder) error {
			e.WriteInt64(1)
			e.WriteUTF8String("hi")
			e.WriteBool(true)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var n int64
	var s string
	var b bool
	err = Decode(DER, data, func(d *Decoder) error {
		return d.ReadSequence(func(d *Decoder) error {
			var err error
			if n, err = d.Int64(); err != nil {
				return err
			}
			if s, err = d.UTF8String(); err != nil {
				return err
			}
			if b, err = d.Bool(); err != nil {
				return err
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != 1 || s != "hi" || b != true {
		t.Errorf("got (%d, %q, %v)", n, s, b)
	}
}

func TestExplicitTagRoundTrip(t *testing.T) {
	tag := asn1.Tag{Class: asn1.ClassContextSpecific, Number: 0}
	data, err := Encode(func(e *Encoder) error {
		return e.WriteTagged(tag, asn1.Explicit, asn1.Constructed, func(e *Encoder) error {
			e.WriteInt64(42)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got int64
	err = Decode(DER, data, func(d *Decoder) error {
		return d.ReadTagged(tag, asn1.Explicit, asn1.Constructed, func(d *Decoder) error {
			var err error
			got, err = d.Int64()
			return err
		})
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestImplicitTagRoundTrip(t *testing.T) {
	tag := asn1.Tag{Class: asn1.ClassContextSpecific, Number: 2}
	data, err := Encode(func(e *Encoder) error {
		return e.WriteTagged(tag, asn1.Implicit, asn1.Primitive, func(e *Encoder) error {
			e.WriteInt64(7)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got int64
	err = Decode(DER, data, func(d *Decoder) error {
		return d.ReadTagged(tag, asn1.Implicit, asn1.Primitive, func(d *Decoder) error {
			var err error
			got, err = d.Int64()
			return err
		})
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != 7 {
		t.Errorf("got %d, want 7", got)
	}
}

func TestReadOptionalAbsent(t *testing.T) {
	data, err := Encode(func(e *Encoder) error {
		e.WriteInt64(5)
		return nil
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	err = Decode(DER, data, func(d *Decoder) error {
		present, err := d.ReadOptional(asn1.TagBoolean, func(d *Decoder) error {
			_, err := d.Bool()
			return err
		})
		if err != nil {
			return err
		}
		if present {
			t.Error("expected field to be absent")
		}
		_, err = d.Int64()
		return err
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestSetOfCanonicalOrder(t *testing.T) {
	elems := []int64{300, 1, 2000}
	data, err := Encode(func(e *Encoder) error {
		return WriteSetOf(e, elems, func(e *Encoder, v int64) error {
			e.WriteInt64(v)
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got []int64
	err = Decode(DER, data, func(d *Decoder) error {
		return d.ReadSet(func(d *Decoder) error {
			var err error
			got, err = ReadSetOf(d, func(d *Decoder) (int64, error) {
				return d.Int64()
			})
			return err
		})
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(elems) {
		t.Fatalf("got %d elements, want %d", len(got), len(elems))
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	data, err := Encode(func(e *Encoder) error {
		e.WriteBool(true)
		return nil
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data = append(data, 0x00)
	err = Decode(DER, data, func(d *Decoder) error {
		_, err := d.Bool()
		return err
	})
	berErr, ok := err.(*Error)
	if !ok || berErr.Kind != ErrExtra {
		t.Fatalf("Decode error = %v, want ErrExtra", err)
	}
}

func TestDecodeRejectsDepthOverflow(t *testing.T) {
	data, err := Encode(func(e *Encoder) error {
		var build func(*Encoder, int) error
		build = func(e *Encoder, depth int) error {
			return e.WriteSequence(func(e *Encoder) error {
				if depth == 0 {
					e.WriteBool(true)
					return nil
				}
				return build(e, depth-1)
			})
		}
		return build(e, MaxDepth+10)
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	err = Decode(DER, data, func(d *Decoder) error {
		var read func(*Decoder) error
		read = func(d *Decoder) error {
			return d.ReadSequence(func(d *Decoder) error {
				tag, _, peekErr := d.peekTag()
				if peekErr == nil && tag == asn1.TagBoolean {
					_, err := d.Bool()
					return err
				}
				return read(d)
			})
		}
		return read(d)
	})
	berErr, ok := err.(*Error)
	if !ok || berErr.Kind != ErrStackOverflow {
		t.Fatalf("Decode error = %v, want ErrStackOverflow", err)
	}
}
