package fingerprint

import "testing"

func TestHash_Deterministic(t *testing.T) {
	a := Hash("Acme Corp announces $10B buyback")
	b := Hash("Acme Corp announces $10B buyback")
	if a != b {
		t.Fatalf("same title hashed differently: %s vs %s", a, b)
	}
}

func TestHash_KnownDigest(t *testing.T) {
	// SHA-256("") — pins the algorithm so a store written by an older build
	// stays readable.
	got := Hash("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Fatalf("Hash(\"\")=%s want=%s", got, want)
	}
}

func TestHash_TitleOnlyLowercaseHex(t *testing.T) {
	got := Hash("Fed raises rates")
	if len(got) != 64 {
		t.Fatalf("digest length=%d want=64", len(got))
	}
	for _, r := range got {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("digest contains non-lowercase-hex rune %q", r)
		}
	}
	if Hash("Fed raises rates") == Hash("fed raises rates") {
		t.Fatalf("hash must be case-sensitive over the raw title")
	}
}
