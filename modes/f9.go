package modes

import (
	"encoding/binary"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// MACSource computes a 32-bit MAC-I.  msg has already been truncated to
// bitLen bits.
type MACSource interface {
	MAC(key []byte, ctx Context, msg []byte, bitLen int) ([]byte, error)
}

// StreamF9 is UIA2 / 128-EIA1: a polynomial hash over GF(2^64) keyed by five
// words of SNOW 3G output.
type StreamF9 struct {
	Gen Generator
}

func (s StreamF9) MAC(key []byte, ctx Context, msg []byte, bitLen int) ([]byte, error) {
	ks, err := keystream("modes.StreamF9", s.Gen, key, SNOW3GIntegrityIV(ctx), 20)
	if err != nil {
		return nil, err
	}
	p := binary.BigEndian.Uint64(ks[0:])
	q := binary.BigEndian.Uint64(ks[8:])
	z5 := binary.BigEndian.Uint32(ks[16:])

	blocks := (bitLen + 63) / 64
	m := make([]byte, 8*blocks)
	copy(m, msg)

	var eval uint64
	for i := 0; i < blocks; i++ {
		eval = MUL64(eval^binary.BigEndian.Uint64(m[8*i:]), p)
	}
	eval ^= uint64(bitLen)
	eval = MUL64(eval, q)

	mac := make([]byte, MACSize)
	binary.BigEndian.PutUint32(mac, uint32(eval>>32)^z5)
	return mac, nil
}

func mul64x(v uint64) uint64 {
	if v&(1<<63) != 0 {
		return v<<1 ^ 0x1b
	}
	return v << 1
}

// MUL64 multiplies v by p in GF(2^64) modulo x^64 + x^4 + x^3 + x + 1.
func MUL64(v, p uint64) uint64 {
	var r uint64
	for i := 0; i < 64; i++ {
		if p>>uint(i)&1 == 1 {
			r ^= v
		}
		v = mul64x(v)
	}
	return r
}

// BlockF9 is the UIA1 CBC-MAC construction over a 64-bit block cipher.  With
// KASUMI it is f9 from TS 35.201.
type BlockF9 struct {
	New BlockFunc
}

func (b BlockF9) MAC(key []byte, ctx Context, msg []byte, bitLen int) ([]byte, error) {
	const op = "modes.BlockF9"
	ik, err := newBlock(op, b.New, key, 8)
	if err != nil {
		return nil, err
	}
	ikm, err := newBlock(op, b.New, modifiedKey(key), 8)
	if err != nil {
		return nil, err
	}

	// COUNT || FRESH || MESSAGE || DIRECTION || 1 || 0*
	end := 64 + bitLen
	ps := make([]byte, 8*((end+2+63)/64))
	binary.BigEndian.PutUint32(ps[0:], ctx.Count)
	binary.BigEndian.PutUint32(ps[4:], ctx.Fresh)
	copy(ps[8:], msg)
	if ctx.Direction == 1 {
		bits.SetBit(ps, end)
	}
	bits.SetBit(ps, end+1)

	a := make([]byte, 8)
	acc := make([]byte, 8)
	for i := 0; i < len(ps); i += 8 {
		for j := range a {
			a[j] ^= ps[i+j]
		}
		ik.Encrypt(a, a)
		for j := range acc {
			acc[j] ^= a[j]
		}
	}
	ikm.Encrypt(acc, acc)
	return acc[:MACSize], nil
}

// F9 computes MAC-I over bitLen bits of data.
func F9(src MACSource, key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	if src == nil {
		return nil, fault.Invalid("modes.F9", "source", "no MAC source configured")
	}
	msg, n, err := prepare("modes.F9", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	mac, err := src.MAC(key, ctx, msg, n)
	if err != nil {
		return nil, err
	}
	if len(mac) != MACSize {
		return nil, fault.Primitive("modes.F9", fault.Invalid("modes.F9", "mac", "got %d bytes", len(mac)))
	}
	return mac, nil
}

// EIA1 is UIA2 with FRESH replaced by BEARER in the top five bits.
func EIA1(gen Generator, key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	ctx.Fresh = ctx.Bearer << 27
	return F9(StreamF9{Gen: gen}, key, ctx, data, bitLen)
}
