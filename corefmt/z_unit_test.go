package corefmt

import (
	"bytes"
	"testing"
)

func TestBase64URLRoundTrip(t *testing.T) {
	src := []byte{0, 1, 2, 250, 251, 252, 253, 254, 255}
	tok := EncodeBase64URL(src)
	back, err := DecodeBase64URL(" " + tok + "==\n")
	if err != nil || !bytes.Equal(src, back) {
		t.Fatalf("round trip failed: %v %v", back, err)
	}
	if _, err := DecodeBase64URL(""); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if _, err := DecodeBase64URL("***"); err == nil {
		t.Fatalf("expected error for invalid token")
	}
}
