package fileid

import (
	"bytes"
	"testing"
)

func TestStuffDestuffRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "no zeros", payload: []byte{1, 2, 3, 4}},
		{name: "single zero", payload: []byte{1, 0, 2}},
		{name: "leading zeros", payload: []byte{0, 0, 0, 9}},
		{name: "trailing zeros", payload: []byte{9, 0, 0, 0}},
		{name: "all zeros", payload: make([]byte, 24)},
		{name: "run of 255", payload: append(make([]byte, 255), 1)},
		{name: "run of 256 crosses chunk boundary", payload: append(make([]byte, 256), 1)},
		{name: "run of 300", payload: append([]byte{7}, make([]byte, 300)...)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := destuff(stuff(tt.payload))
			if err != nil {
				t.Fatalf("destuff() error = %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Fatalf("round trip = %v, want %v", got, tt.payload)
			}
		})
	}
}

func TestStuffShrinksZeroRuns(t *testing.T) {
	t.Parallel()

	// A 19-zero tail collapses to one pair; this is what keeps tokens short.
	payload := append([]byte{5}, make([]byte, 19)...)
	stuffed := stuff(payload)
	want := []byte{5, 0x00, 19, sentinel}
	if !bytes.Equal(stuffed, want) {
		t.Fatalf("stuff() = %v, want %v", stuffed, want)
	}
}

func TestReferenceTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token := ReferenceToken(-5000000000, 123456789)
	id, hash, err := ParseReferenceToken(token)
	if err != nil {
		t.Fatalf("ParseReferenceToken() error = %v", err)
	}
	if id != -5000000000 || hash != 123456789 {
		t.Fatalf("ParseReferenceToken() = (%d, %d), want (-5000000000, 123456789)", id, hash)
	}

	if _, _, err := ParseReferenceToken("AQID"); err == nil {
		t.Fatal("ParseReferenceToken() expected error for short token")
	}
}
