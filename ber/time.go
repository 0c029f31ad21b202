// Copyright 2025 The x690 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"errors"
	"strconv"

	asn1 "x690.dev/asn1"
)

// parseUTCTime validates and parses the content octets of a UTCTime value:
// YYMMDDHHMM[SS](Z|(+|-)HHMM). The two-digit year follows the X.509
// convention: 50-99 means 1950-1999, 00-49 means 2000-2049.
func parseUTCTime(content []byte) (asn1.Calendar, error) {
	s := string(content)
	if len(s) < 11 {
		return asn1.Calendar{}, errors.New("UTCTime too short")
	}
	yy, rest, err := takeDigits(s, 2)
	if err != nil {
		return asn1.Calendar{}, err
	}
	year := yy + 1900
	if yy < 50 {
		year = yy + 2000
	}
	cal, err := parseDateTimeCore(year, rest, false)
	if err != nil {
		return asn1.Calendar{}, err
	}
	return cal, nil
}

// parseGeneralizedTime validates and parses the content octets of a
// GeneralizedTime value: YYYYMMDDHH[MM[SS]][.fff](Z|(+|-)HHMM)?. Local time
// without an offset is permitted by the grammar; OffsetSpecified is false in
// that case.
func parseGeneralizedTime(content []byte) (asn1.Calendar, error) {
	s := string(content)
	if len(s) < 10 {
		return asn1.Calendar{}, errors.New("GeneralizedTime too short")
	}
	year, rest, err := takeDigits(s, 4)
	if err != nil {
		return asn1.Calendar{}, err
	}
	return parseDateTimeCore(year, rest, true)
}

// parseDateTimeCore parses "MMDDHH[MM[SS]][.fff](Z|(+|-)HHMM)?" — the part of
// the grammar shared by UTCTime and GeneralizedTime once the year has been
// consumed. Seconds are optional in both grammars. generalized controls
// whether minutes and a local-time (unspecified offset) form are optional,
// and whether a fractional-seconds part is allowed, as GeneralizedTime
// permits and UTCTime does not.
func parseDateTimeCore(year int, s string, generalized bool) (asn1.Calendar, error) {
	month, s, err := takeDigits(s, 2)
	if err != nil {
		return asn1.Calendar{}, err
	}
	day, s, err := takeDigits(s, 2)
	if err != nil {
		return asn1.Calendar{}, err
	}
	hour, s, err := takeDigits(s, 2)
	if err != nil {
		return asn1.Calendar{}, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 {
		return asn1.Calendar{}, errors.New("date/time field out of range")
	}

	minute, second, fracDigits, nanos := 0, 0, 0, 0
	if generalized {
		if len(s) >= 2 && isDigit(s[0]) && isDigit(s[1]) {
			minute, s, err = takeDigits(s, 2)
			if err != nil {
				return asn1.Calendar{}, err
			}
			if len(s) >= 2 && isDigit(s[0]) && isDigit(s[1]) {
				second, s, err = takeDigits(s, 2)
				if err != nil {
					return asn1.Calendar{}, err
				}
			}
		}
	} else {
		minute, s, err = takeDigits(s, 2)
		if err != nil {
			return asn1.Calendar{}, err
		}
		if len(s) >= 2 && isDigit(s[0]) && isDigit(s[1]) {
			second, s, err = takeDigits(s, 2)
			if err != nil {
				return asn1.Calendar{}, err
			}
		}
	}
	if minute > 59 || second > 60 {
		return asn1.Calendar{}, errors.New("date/time field out of range")
	}

	if len(s) > 0 && (s[0] == '.' || s[0] == ',') {
		if !generalized {
			return asn1.Calendar{}, errors.New("UTCTime does not permit fractional seconds")
		}
		s = s[1:]
		start := 0
		for start < len(s) && isDigit(s[start]) {
			start++
		}
		if start == 0 {
			return asn1.Calendar{}, errors.New("empty fractional-seconds field")
		}
		frac := s[:start]
		s = s[start:]
		fracDigits = len(frac)
		if len(frac) > 9 {
			frac = frac[:9]
		}
		num, err := strconv.Atoi(frac)
		if err != nil {
			return asn1.Calendar{}, err
		}
		nanos = num
		for i := len(frac); i < 9; i++ {
			nanos *= 10
		}
	}

	if second == 60 {
		// Leap second: fold into the last regular second of the minute, per
		// original_source/src/models/time.rs's "cope with leap seconds" step.
		second = 59
		nanos += 1_000_000_000
	}

	cal := asn1.Calendar{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second,
		Nanosecond: nanos, FracDigits: fracDigits,
	}

	if len(s) == 0 {
		if generalized {
			cal.OffsetSpecified = false
			return cal, nil
		}
		return asn1.Calendar{}, errors.New("UTCTime requires a Z or numeric offset")
	}
	switch s[0] {
	case 'Z':
		if len(s) != 1 {
			return asn1.Calendar{}, errors.New("unexpected trailing characters after Z")
		}
		cal.OffsetSpecified = true
		cal.OffsetSeconds = 0
	case '+', '-':
		sign := 1
		if s[0] == '-' {
			sign = -1
		}
		oh, rest, err := takeDigits(s[1:], 2)
		if err != nil {
			return asn1.Calendar{}, err
		}
		om, rest, err := takeDigits(rest, 2)
		if err != nil {
			return asn1.Calendar{}, err
		}
		if rest != "" {
			return asn1.Calendar{}, errors.New("unexpected trailing characters after offset")
		}
		if oh > 23 || om > 59 {
			return asn1.Calendar{}, errors.New("offset out of range")
		}
		cal.OffsetSpecified = true
		cal.OffsetSeconds = sign * (oh*3600 + om*60)
	default:
		return asn1.Calendar{}, errors.New("expected Z or numeric offset")
	}
	return cal, nil
}

// ParseUTCTime parses t's raw content octets into a [asn1.Calendar]. It
// re-validates the grammar rather than trusting that t was produced by
// [Decoder.UTCTime], so it also accepts a UTCTime literal assembled by hand.
func ParseUTCTime(t asn1.UTCTime) (asn1.Calendar, error) {
	return parseUTCTime(t)
}

// ParseGeneralizedTime parses t's raw content octets into a [asn1.Calendar].
// It re-validates the grammar rather than trusting that t was produced by
// [Decoder.GeneralizedTime], so it also accepts a GeneralizedTime literal
// assembled by hand.
func ParseGeneralizedTime(t asn1.GeneralizedTime) (asn1.Calendar, error) {
	return parseGeneralizedTime(t)
}

// WriteUTCTime writes a UTCTime value from cal. cal.Year must be in
// 1950..2049 (the range representable by UTCTime's two-digit year) and
// cal.OffsetSpecified must be true with cal.OffsetSeconds a whole number of
// minutes, since UTCTime does not permit an unqualified local time or a
// sub-minute offset.
func (e *Encoder) WriteUTCTime(cal asn1.Calendar) error {
	if cal.Year < 1950 || cal.Year > 2049 {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "UTCTime year out of range"}
	}
	if !cal.OffsetSpecified {
		return &Error{Kind: ErrInvalid, Offset: -1, Msg: "UTCTime requires an explicit offset"}
	}
	yy := cal.Year % 100
	buf := []byte(
		pad2(yy) + pad2(cal.Month) + pad2(cal.Day) +
			pad2(cal.Hour) + pad2(cal.Minute) + pad2(cal.Second),
	)
	buf = append(buf, offsetSuffix(cal.OffsetSeconds)...)
	e.writeTLV(asn1.TagUTCTime, asn1.Primitive, buf)
	return nil
}

// WriteGeneralizedTime writes a GeneralizedTime value from cal.
func (e *Encoder) WriteGeneralizedTime(cal asn1.Calendar) error {
	buf := []byte(
		pad4(cal.Year) + pad2(cal.Month) + pad2(cal.Day) +
			pad2(cal.Hour) + pad2(cal.Minute) + pad2(cal.Second),
	)
	if cal.FracDigits > 0 {
		frac := cal.Nanosecond
		for i := 9; i > cal.FracDigits; i-- {
			frac /= 10
		}
		digits := padN(frac, cal.FracDigits)
		for len(digits) > 0 && digits[len(digits)-1] == '0' {
			digits = digits[:len(digits)-1]
		}
		if digits != "" {
			buf = append(buf, '.')
			buf = append(buf, []byte(digits)...)
		}
	}
	if cal.OffsetSpecified {
		buf = append(buf, offsetSuffix(cal.OffsetSeconds)...)
	}
	e.writeTLV(asn1.TagGeneralizedTime, asn1.Primitive, buf)
	return nil
}

func offsetSuffix(offsetSeconds int) string {
	if offsetSeconds == 0 {
		return "Z"
	}
	sign := "+"
	s := offsetSeconds
	if s < 0 {
		sign = "-"
		s = -s
	}
	return sign + pad2(s/3600) + pad2((s%3600)/60)
}

func pad2(v int) string { return padN(v, 2) }
func pad4(v int) string { return padN(v, 4) }

func padN(v, n int) string {
	s := strconv.Itoa(v)
	for len(s) < n {
		s = "0" + s
	}
	return s
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func takeDigits(s string, n int) (int, string, error) {
	if len(s) < n {
		return 0, "", errors.New("truncated date/time field")
	}
	v := 0
	for i := 0; i < n; i++ {
		if !isDigit(s[i]) {
			return 0, "", errors.New("non-digit in date/time field")
		}
		v = v*10 + int(s[i]-'0')
	}
	return v, s[n:], nil
}
