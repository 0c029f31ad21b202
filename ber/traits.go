// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

// Decodable is implemented by types that know how to read their own encoding
// from a Decoder. It lets the generic helper [ReadSequenceOf] work with any
// caller-defined element type without the caller repeating a closure at every
// call site.
type Decodable interface {
	DecodeBER(d *Decoder) error
}

// Encodable is implemented by types that know how to write their own
// encoding to an Encoder, mirroring [Decodable].
type Encodable interface {
	EncodeDER(e *Encoder) error
}

// ReadSequenceOf reads a SEQUENCE OF elements of type T until the enclosing
// scope ends, using T's DecodeBER method to read each element.
func ReadSequenceOf[T Decodable](d *Decoder, newElem func() T) ([]T, error) {
	var result []T
	for !d.AtEnd() {
		v := newElem()
		if err := v.DecodeBER(d); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// WriteSequenceOf writes a SEQUENCE OF elements of type T, using each
// element's EncodeDER method, in the order given.
func WriteSequenceOf[T Encodable](e *Encoder, elems []T) error {
	return e.WriteSequence(func(e *Encoder) error {
		for _, v := range elems {
			if err := v.EncodeDER(e); err != nil {
				return err
			}
		}
		return nil
	})
}
