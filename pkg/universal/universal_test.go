package universal

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

const (
	prime      = 10007
	mersenne61 = 1<<61 - 1
)

var seed = bytes.Repeat([]byte{0x5a}, 32)

func TestHash(t *testing.T) {
	hashTests := []struct {
		f    Func
		x    uint64
		want uint64
	}{
		{Func{A: 1, B: 0, M: 10, P: 7}, 9, 2},
		{Func{A: 3, B: 4, M: 100, P: 7}, 5, 5},
		{Func{A: 3, B: 4, M: 2, P: 7}, 5, 1},
		{Func{A: 10006, B: 10006, M: 10007, P: 10007}, 10006, 0},
		{Func{A: 2, B: 1, M: 1000, P: 10007}, 5003, 0},
		{Func{A: 2, B: 1, M: 1000, P: 10007}, 5006, 6},
	}

	for _, tt := range hashTests {
		if got := tt.f.Hash(tt.x); got != tt.want {
			t.Errorf("(%v).Hash(%d): want: %d, got: %d", tt.f, tt.x, tt.want, got)
		}
	}
}

func TestHashWideProducts(t *testing.T) {
	fac, err := NewFactory(mersenne61, Blake3, seed)
	if err != nil {
		t.Fatal(err)
	}

	x := uint64(mersenne61 - 1)
	for i := 0; i < 100; i++ {
		f := fac.Generate(1 << 40)
		want := new(big.Int).SetUint64(f.A)
		want.Mul(want, new(big.Int).SetUint64(x))
		want.Add(want, new(big.Int).SetUint64(f.B))
		want.Mod(want, new(big.Int).SetUint64(f.P))
		want.Mod(want, new(big.Int).SetUint64(f.M))
		if got := f.Hash(x); got != want.Uint64() {
			t.Fatalf("(%v).Hash(%d): want: %s, got: %d", f, x, want, got)
		}
	}
}

func TestGenerate(t *testing.T) {
	for _, src := range []int{Blake3, Murmur3, Metro, Highway, SipHash} {
		fac, err := NewFactory(prime, src, nil)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 1000; i++ {
			f := fac.Generate(24)
			if f.A < 1 || f.A > prime-1 {
				t.Fatalf("source %d: a = %d not in [1, %d]", src, f.A, prime-1)
			}
			if f.B > prime-1 {
				t.Fatalf("source %d: b = %d not in [0, %d]", src, f.B, prime-1)
			}
			if f.M != 24 || f.P != prime {
				t.Fatalf("source %d: want m = 24, p = %d, got: %v, p = %d", src, prime, f, f.P)
			}
			if h := f.Hash(uint64(i)); h >= 24 {
				t.Fatalf("source %d: hash %d out of range", src, h)
			}
		}
	}
}

func TestSeededFactoryIsReproducible(t *testing.T) {
	f1, _ := NewFactory(prime, Murmur3, seed)
	f2, _ := NewFactory(prime, Murmur3, seed)
	for i := 0; i < 100; i++ {
		if a, b := f1.Generate(64), f2.Generate(64); a != b {
			t.Fatalf("draw %d: %v != %v", i, a, b)
		}
	}
}

func TestNewFactoryErrors(t *testing.T) {
	if _, err := NewFactory(1, Blake3, nil); err == nil {
		t.Error("NewFactory(1): want error, got nil")
	}
	if _, err := NewFactory(prime, 666, nil); err != ErrUnknownSource {
		t.Errorf("NewFactory(source 666): want: %v, got: %v", ErrUnknownSource, err)
	}
	if _, err := NewFactory(prime, Blake3, []byte("short")); err == nil {
		t.Error("NewFactory(short seed): want error, got nil")
	}
}

func TestParseSource(t *testing.T) {
	parseTests := []struct {
		name string
		want int
	}{
		{"blake3", Blake3},
		{"murmur3", Murmur3},
		{"metro", Metro},
		{"highway", Highway},
		{"siphash", SipHash},
	}
	for _, tt := range parseTests {
		if got, err := ParseSource(tt.name); err != nil || got != tt.want {
			t.Errorf("ParseSource(%s): want: %d, got: %d (%v)", tt.name, tt.want, got, err)
		}
	}
	if _, err := ParseSource("sha1"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("ParseSource(sha1): want: %v, got: %v", ErrUnknownSource, err)
	}
}

func TestGenerateZeroModulus(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Generate(0) did not panic")
		}
	}()
	fac, _ := NewFactory(prime, Blake3, seed)
	fac.Generate(0)
}

// For a fixed pair of distinct keys the collision rate over many draws
// should stay close to 1/m.
func TestCollisionRate(t *testing.T) {
	const (
		m     = 16
		draws = 20000
	)
	fac, _ := NewFactory(prime, Blake3, seed)

	pairs := [][2]uint64{{0, 1}, {17, 33}, {5000, 9999}, {1, 10006}}
	for _, p := range pairs {
		collisions := 0
		for i := 0; i < draws; i++ {
			f := fac.Generate(m)
			if f.Hash(p[0]) == f.Hash(p[1]) {
				collisions++
			}
		}
		// 1/m = 1250 expected collisions, allow generous slack
		if collisions > 2*draws/m {
			t.Errorf("pair %v: %d collisions in %d draws, want about %d", p, collisions, draws, draws/m)
		}
	}
}

func BenchmarkHash(b *testing.B) {
	fac, _ := NewFactory(prime, Blake3, seed)
	f := fac.Generate(1 << 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Hash(uint64(i) % prime)
	}
}

func BenchmarkGenerate(b *testing.B) {
	fac, _ := NewFactory(prime, Blake3, seed)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fac.Generate(1 << 10)
	}
}
