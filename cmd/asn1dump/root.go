// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile string

// newRootCommand builds the asn1dump command tree.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "asn1dump",
		Short:         "Inspect and produce BER/CER/DER-encoded ASN.1 values",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}
	root.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write a rotating log of decode/encode operations to this path (stderr if empty)")

	root.AddCommand(newDecodeCommand())
	root.AddCommand(newEncodeExampleCommand())
	return root
}

// setupLogging points the default [slog] logger at either stderr or a
// size-rotated log file, depending on --log-file.
func setupLogging() error {
	if logFile == "" {
		return nil
	}
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(writer, nil)))
	return nil
}
