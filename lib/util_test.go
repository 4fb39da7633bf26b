package lib

import "testing"
import "unsafe"

func TestMemcpy(t *testing.T) {
	src, dst := make([]byte, 100), make([]byte, 100)
	for i := range src {
		src[i] = byte(i)
	}
	n := Memcpy(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), len(src))
	if n != 100 {
		t.Errorf("expected %v, got %v", 100, n)
	}
	for i := range dst {
		if dst[i] != byte(i) {
			t.Fatalf("expected %v, got %v", byte(i), dst[i])
		}
	}
}

func TestMemset(t *testing.T) {
	blk := make([]byte, 100)
	for i := range blk {
		blk[i] = 0xff
	}
	Memset(unsafe.Pointer(&blk[0]), 0, len(blk))
	for i := range blk {
		if blk[i] != 0 {
			t.Fatalf("expected %v, got %v", 0, blk[i])
		}
	}
}

func TestAlign(t *testing.T) {
	if x := AlignUp(0, 16); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	} else if x := AlignUp(1, 16); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if x := AlignUp(16, 16); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if x := AlignUp(17, 16); x != 32 {
		t.Errorf("expected %v, got %v", 32, x)
	}
	if x := AlignDown(17, 16); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if x := AlignDown(16, 16); x != 16 {
		t.Errorf("expected %v, got %v", 16, x)
	} else if x := AlignDown(15, 16); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
}
