package hash

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/alecthomas/unsafeslice"
	"github.com/dchest/siphash"
	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/twmb/murmur3"
	"github.com/zeebo/blake3"
)

const (
	SaltLength = 32

	Blake3 = iota
	Murmur3
	Metro
	Highway
	SipHash
)

var (
	ErrUnknownSource      = fmt.Errorf("cannot create a source of unknown type")
	ErrSaltLengthMismatch = fmt.Errorf("provided salt is not %d length", SaltLength)
)

func init() {
	if SaltLength != 32 {
		log.Fatalf("SaltLength has to be fixed to 32 and is set to %d", SaltLength)
	}
}

// Source is a stream of pseudorandom 64-bit words derived from a salt.
// Sources are not safe for concurrent use.
type Source interface {
	Uint64() uint64
}

// New creates a source of type t keyed with salt
func New(t int, salt []byte) (Source, error) {
	switch t {
	case Blake3:
		return NewBlake3Source(salt)
	case Murmur3:
		return NewMurmur3Source(salt)
	case Metro:
		return NewMetroSource(salt)
	case Highway:
		return NewHighwaySource(salt)
	case SipHash:
		return NewSipHashSource(salt)
	default:
		return nil, ErrUnknownSource
	}
}

// MakeSalt returns SaltLength bytes read from crypto/rand.
func MakeSalt() ([]byte, error) {
	var s = make([]byte, SaltLength)

	if n, err := crand.Read(s); err != nil {
		return nil, err
	} else if n != SaltLength {
		return nil, fmt.Errorf("requested %d rand bytes and got %d", SaltLength, n)
	} else {
		return s, nil
	}
}

// Uniform returns a value drawn uniformly from [0, n) by rejecting
// the words that fall in the incomplete last block of size n.
func Uniform(s Source, n uint64) uint64 {
	if n == 0 {
		panic(fmt.Errorf("uniform draw from an empty range"))
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if v := s.Uint64(); v < limit {
			return v % n
		}
	}
}

// Blake3 implementation of Source: a keyed
// extendable output stream read 8 bytes at a time.
type blake3Source struct {
	digest *blake3.Digest
	buf    [8]byte
}

// NewBlake3Source returns a source reading from the output stream
// of blake3 keyed with salt
func NewBlake3Source(salt []byte) (*blake3Source, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	h, err := blake3.NewKeyed(salt)
	if err != nil {
		return nil, err
	}

	return &blake3Source{digest: h.Digest()}, nil
}

func (b *blake3Source) Uint64() uint64 {
	if _, err := b.digest.Read(b.buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b.buf[:])
}

// counter holds the salt followed by a block counter. The
// block is hashed through a byte view that aliases the words,
// so bumping the counter needs no copy.
type counter struct {
	words []uint64
	view  []byte
}

func newCounter(salt []byte) counter {
	words := make([]uint64, SaltLength/8+1)
	for i := 0; i < SaltLength/8; i++ {
		words[i] = binary.LittleEndian.Uint64(salt[i*8:])
	}

	return counter{words: words, view: unsafeslice.ByteSliceFromUint64Slice(words)}
}

// next advances the counter and returns the salted block
func (c *counter) next() []byte {
	c.words[len(c.words)-1]++
	return c.view
}

// Murmur3 implementation of Source
type murmur64 struct {
	counter
}

// NewMurmur3Source returns a Murmur3 source that sums
// the salt prefixed to an incrementing counter
func NewMurmur3Source(salt []byte) (*murmur64, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	return &murmur64{counter: newCounter(salt)}, nil
}

func (m *murmur64) Uint64() uint64 {
	return murmur3.Sum64(m.next())
}

// Metro Hash implementation of Source
type metro struct {
	counter
}

// NewMetroSource returns a metro64 source that sums
// the salt prefixed to an incrementing counter
func NewMetroSource(salt []byte) (*metro, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	return &metro{counter: newCounter(salt)}, nil
}

func (m *metro) Uint64() uint64 {
	h := metrohash.NewMetroHash64()
	h.Write(m.next())
	return h.Sum64()
}

// HighwayHash implementation of Source, the salt is the key
type highway struct {
	key []byte
	n   [1]uint64
	buf []byte
}

// NewHighwaySource returns a source that sums an incrementing
// counter with highwayhash keyed by salt
func NewHighwaySource(salt []byte) (*highway, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	h := &highway{key: append([]byte(nil), salt...)}
	h.buf = unsafeslice.ByteSliceFromUint64Slice(h.n[:])
	return h, nil
}

func (h *highway) Uint64() uint64 {
	h.n[0]++
	return highwayhash.Sum64(h.buf, h.key)
}

// SipHash implementation of Source, keyed with the first half
// of the salt and summing the whole salt prefixed to a counter
type sipHash struct {
	key0, key1 uint64
	counter
}

// NewSipHashSource returns a SipHash-2-4 source keyed by salt
func NewSipHashSource(salt []byte) (*sipHash, error) {
	if len(salt) != SaltLength {
		return nil, ErrSaltLengthMismatch
	}

	return &sipHash{
		key0:    binary.BigEndian.Uint64(salt[:8]),
		key1:    binary.BigEndian.Uint64(salt[8:16]),
		counter: newCounter(salt),
	}, nil
}

func (s *sipHash) Uint64() uint64 {
	return siphash.Hash(s.key0, s.key1, s.next())
}
