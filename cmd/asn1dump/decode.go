// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	asn1 "x690.dev/asn1"
	"x690.dev/asn1/ber"
)

func newDecodeCommand() *cobra.Command {
	var modeName string
	cmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Pretty-print the TLV structure of a BER/CER/DER file",
		Long: `decode walks the input without any schema, printing each value's tag,
primitive/constructed bit, and content. Primitive values of a handful of
well-known universal types are additionally interpreted (INTEGER, BOOLEAN,
UTF8String, OBJECT IDENTIFIER, ...); everything else falls back to a hex dump
of its content octets, since this command has no way to know the schema of
an arbitrary message.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeName)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			slog.Info("decode", "file", args[0], "mode", mode, "bytes", len(data))
			return runDecode(cmd.OutOrStdout(), mode, data)
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "der", "encoding rule to decode under: ber, cer or der")
	return cmd
}

func parseMode(name string) (ber.Mode, error) {
	switch strings.ToLower(name) {
	case "ber":
		return ber.BER, nil
	case "cer":
		return ber.CER, nil
	case "der":
		return ber.DER, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: want ber, cer or der", name)
	}
}

func runDecode(w io.Writer, mode ber.Mode, data []byte) error {
	return ber.Decode(mode, data, func(d *ber.Decoder) error {
		for !d.AtEnd() {
			v, err := d.TaggedValue()
			if err != nil {
				return err
			}
			printValue(w, 0, v)
		}
		return nil
	})
}

func printValue(w io.Writer, depth int, v asn1.TaggedValue) {
	indent := strings.Repeat("  ", depth)
	if v.PC == asn1.Primitive {
		fmt.Fprintf(w, "%s%s %s %s\n", indent, v.Tag, v.PC, describePrimitive(v.Tag, v.Payload))
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, v.Tag, v.PC)
	err := ber.Decode(ber.BER, v.Payload, func(d *ber.Decoder) error {
		for !d.AtEnd() {
			child, err := d.TaggedValue()
			if err != nil {
				return err
			}
			printValue(w, depth+1, child)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "%s  <malformed: %v>\n", indent, err)
	}
}

// describePrimitive interprets content according to tag when it is a
// well-known universal type, falling back to a hex dump otherwise. This is
// deliberately not a general schema-aware decoder: a CONTEXT-SPECIFIC or
// APPLICATION tag carries no information about what its content represents
// without an external schema, which is out of scope for this command.
func describePrimitive(tag asn1.Tag, content []byte) string {
	if tag.Class != asn1.ClassUniversal {
		return hex.EncodeToString(content)
	}
	switch tag.Number {
	case asn1.TagBoolean.Number:
		if len(content) == 1 {
			return fmt.Sprintf("%v", content[0] != 0)
		}
	case asn1.TagInteger.Number:
		return fmt.Sprintf("INTEGER %s", hex.EncodeToString(content))
	case asn1.TagNull.Number:
		return "NULL"
	case asn1.TagUTF8String.Number, asn1.TagPrintableString.Number,
		asn1.TagIA5String.Number, asn1.TagVisibleString.Number:
		return fmt.Sprintf("%q", string(content))
	case asn1.TagOID.Number:
		return decodeOIDForDisplay(content)
	}
	return hex.EncodeToString(content)
}

// decodeOIDForDisplay re-decodes an OBJECT IDENTIFIER's raw content octets
// for display purposes, by re-wrapping them in a minimal TLV header so
// [ber.Decoder.ObjectIdentifier] can be reused instead of duplicating its arc
// parsing here. It falls back to a hex dump if the content turns out to be
// malformed, rather than aborting the whole command over one bad value.
func decodeOIDForDisplay(content []byte) string {
	wire := append([]byte{byte(asn1.TagOID.Number), byte(len(content))}, content...)
	var oid asn1.ObjectIdentifier
	err := ber.Decode(ber.BER, wire, func(d *ber.Decoder) error {
		var err error
		oid, err = d.ObjectIdentifier()
		return err
	})
	if err != nil {
		return hex.EncodeToString(content)
	}
	return oid.String()
}
