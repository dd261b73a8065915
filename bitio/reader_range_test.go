package bitio

import "testing"

func TestNewRangeDecoder_InitialState(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	dec := NewRangeDecoder(data)

	if dec.rng != 254 {
		t.Errorf("initial rng = %d, want 254", dec.rng)
	}
	if dec.eof {
		t.Error("unexpected eof after init")
	}
}

func TestRangeDecoder_GetBit_AllZeroData(t *testing.T) {
	// With all-zero data the value never exceeds the split, so every
	// decoded bit is 0.
	data := make([]byte, 16)
	dec := NewRangeDecoder(data)

	for i := 0; i < 20; i++ {
		if bit := dec.GetBit(128); bit != 0 {
			t.Errorf("bit %d: got %d, want 0 (all-zero data)", i, bit)
		}
	}
}

func TestRangeDecoder_GetBit_AllOnesData(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = 0xff
	}
	dec := NewRangeDecoder(data)

	for i := 0; i < 20; i++ {
		if bit := dec.GetBit(128); bit != 1 {
			t.Errorf("bit %d: got %d, want 1 (all-ones data)", i, bit)
		}
	}
}

func TestRangeDecoder_GetValue_Bounds(t *testing.T) {
	data := []byte{0xAB, 0xCD, 0xEF, 0x01, 0x23, 0x45, 0x67, 0x89, 0x00, 0x00}
	dec := NewRangeDecoder(data)

	for i := 1; i <= 8; i++ {
		v := dec.GetValue(i)
		if v >= 1<<uint(i) {
			t.Errorf("GetValue(%d) = %d, exceeds max %d", i, v, (1<<uint(i))-1)
		}
	}
}

func TestRangeDecoder_GetSignedValue_RoundTrip(t *testing.T) {
	vals := []struct {
		val    int
		nbBits int
	}{
		{0, 4}, {5, 4}, {-5, 4}, {15, 4}, {-15, 4}, {200, 8}, {-1, 1},
	}

	enc := NewRangeEncoder(64)
	for _, v := range vals {
		mag := v.val
		if mag < 0 {
			mag = -mag
		}
		enc.PutBits(uint32(mag), v.nbBits)
		sign := 0
		if v.val < 0 {
			sign = 1
		}
		enc.PutBitUniform(sign)
	}
	data, err := enc.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	dec := NewRangeDecoder(data)
	for i, v := range vals {
		got := dec.GetSignedValue(v.nbBits)
		if got != int32(v.val) {
			t.Errorf("value %d: got %d, want %d", i, got, v.val)
		}
	}
}

func TestRangeDecoder_GetSigned(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = 0xff
	}
	dec := NewRangeDecoder(data)

	result := dec.GetSigned(42)
	if result != 42 && result != -42 {
		t.Errorf("GetSigned(42) = %d, want 42 or -42", result)
	}
}

func TestRangeDecoder_ZeroProbPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("GetBit with prob 0 did not panic")
		}
	}()
	dec := NewRangeDecoder([]byte{0xFF, 0xFF})
	dec.GetBit(0)
}

func TestRangeDecoder_Truncated_EmptyData(t *testing.T) {
	dec := NewRangeDecoder([]byte{})

	if !dec.EOF() {
		t.Error("expected eof on empty data")
	}
	if dec.Err() != ErrTruncated {
		t.Errorf("Err = %v, want ErrTruncated", dec.Err())
	}
	// Decoding must keep serving bits (zero-fill) without touching
	// out-of-bounds memory.
	for i := 0; i < 32; i++ {
		dec.GetBit(128)
	}
}

func TestRangeDecoder_Truncated_ShortData(t *testing.T) {
	dec := NewRangeDecoder([]byte{0x42})

	for i := 0; i < 64; i++ {
		dec.GetBit(128)
	}
	if !dec.EOF() {
		t.Error("expected eof after exhausting single byte")
	}
	if dec.Err() != ErrTruncated {
		t.Errorf("Err = %v, want ErrTruncated", dec.Err())
	}
}
