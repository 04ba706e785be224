package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !h.Verify(hash, "s3cret-pass") {
		t.Error("correct password should verify")
	}
	if h.Verify(hash, "wrong-pass") {
		t.Error("wrong password must not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(4)

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ (salt)")
	}
}

func TestInvalidCostFallsBack(t *testing.T) {
	h := NewHasher(99)

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.Verify(hash, "pw") {
		t.Error("hasher with clamped cost should still round-trip")
	}
}
