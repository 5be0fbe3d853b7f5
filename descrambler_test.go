package main

import "testing"

// TestDescrambleIsInvolution verifies the LFSR descrambler against its own involution
// property: running it twice over the same region restores the original
// bytes, since the three LFSRs are reseeded identically on each call and
// XOR is self-inverting.
func TestDescrambleIsInvolution(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 7)
	}
	original := make([]byte, len(data))
	copy(original, data)

	descramble(data)
	if string(data) == string(original) {
		t.Fatal("descramble left the buffer unchanged")
	}

	descramble(data)
	for i := range data {
		if data[i] != original[i] {
			t.Fatalf("descramble twice did not restore byte %d: got %#02x want %#02x", i, data[i], original[i])
		}
	}
}

// TestBootromLoadDescramblesFixedRegion checks that Bootrom.Load only
// touches the documented encrypted window and leaves the rest of the
// image (including the font/header bytes before 0x100) untouched.
func TestBootromLoadDescramblesFixedRegion(t *testing.T) {
	raw := make([]byte, BootromSize)
	for i := range raw {
		raw[i] = byte(i)
	}

	rom := NewBootrom()
	path := writeTempFile(t, raw)
	if err := rom.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for i := 0; i < 0x100; i++ {
		if rom.data[i] != raw[i] {
			t.Fatalf("byte %d before the encrypted region was modified", i)
		}
	}
	changed := false
	for i := 0x100; i < ipldDescrambledEnd; i++ {
		if rom.data[i] != raw[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("encrypted region was not descrambled")
	}
}
