package vlq

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

type readTestCase struct {
	data    []byte
	want    uint64
	wantN   int
	wantErr error
}

func testRead(t *testing.T, f func([]byte, int) (uint64, int, error), tc readTestCase) {
	t.Helper()
	got, n, err := f(tc.data, 0)
	if !errors.Is(err, tc.wantErr) {
		t.Fatalf("(%# x) error = %v, wantErr %v", tc.data, err, tc.wantErr)
	}
	if err != nil {
		return
	}
	if got != tc.want {
		t.Errorf("(%# x) got = %v, want %v", tc.data, got, tc.want)
	}
	if n != tc.wantN {
		t.Errorf("(%# x) n = %d, want %d", tc.data, n, tc.wantN)
	}
}

func TestRead(t *testing.T) {
	tests := map[string]readTestCase{
		"SingleByte":    {[]byte{0x05}, 5, 1, nil},
		"MultiByte":     {[]byte{0x85, 0x01, 0x00}, 641, 2, nil},
		"Empty":         {nil, 0, 0, ErrTruncated},
		"Truncated":     {[]byte{0x81}, 0, 0, ErrTruncated},
		"TrailingBytes": {[]byte{0x05, 0xff}, 5, 1, nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, Read, tc)
		})
	}
}

func TestReadOverflow(t *testing.T) {
	data := []byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	_, _, err := Read(data, 0)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("Read(%# x) error = %v, want ErrOverflow", data, err)
	}
}

func TestReadMinimal(t *testing.T) {
	data := []byte{0x80, 0x85, 0x01}
	_, _, err := ReadMinimal(data, 0)
	if !errors.Is(err, ErrNotMinimal) {
		t.Fatalf("ReadMinimal(%# x) error = %v, want ErrNotMinimal", data, err)
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{25, []byte{25}},
		{641, []byte{0x85, 0x01}},
		{200, []byte{0x81, 0x48}},
	}
	for _, tc := range tests {
		t.Run(strconv.FormatUint(tc.value, 10), func(t *testing.T) {
			l := Len(tc.value)
			if l != len(tc.want) {
				t.Errorf("Len(%d) = %d, want %d", tc.value, l, len(tc.want))
			}
			got := Append(nil, tc.value)
			if !slices.Equal(got, tc.want) {
				t.Errorf("Append(%d) = %# x, want %# x", tc.value, got, tc.want)
			}
		})
	}
}

func BenchmarkLen(b *testing.B) {
	for b.Loop() {
		Len(200)
	}
}
