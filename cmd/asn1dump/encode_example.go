// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	asn1 "x690.dev/asn1"
	"x690.dev/asn1/ber"
)

func newEncodeExampleCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "encode-example",
		Short: "Encode a small fixed SEQUENCE as a demonstration of the DER encoder",
		Long: `encode-example builds the DER encoding of:

	SEQUENCE {
	  INTEGER 7
	  UTF8String "asn1dump"
	  BOOLEAN TRUE
	  [0] EXPLICIT OBJECT IDENTIFIER 1.2.840.113549
	}

and writes it either to --out or, by default, hex-encoded to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := buildExample()
			if err != nil {
				return err
			}
			slog.Info("encode-example", "bytes", len(data))
			if outPath != "" {
				return os.WriteFile(outPath, data, 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the raw DER bytes to this path instead of printing hex")
	return cmd
}

func buildExample() ([]byte, error) {
	tag := asn1.Tag{Class: asn1.ClassContextSpecific, Number: 0}
	oid := asn1.ObjectIdentifier{1, 2, 840, 113549}
	return ber.Encode(func(e *ber.Encoder) error {
		return e.WriteSequence(func(e *ber.Encoder) error {
			e.WriteInt64(7)
			e.WriteUTF8String("asn1dump")
			e.WriteBool(true)
			return e.WriteTagged(tag, asn1.Explicit, asn1.Constructed, func(e *ber.Encoder) error {
				return e.WriteObjectIdentifier(oid)
			})
		})
	})
}
