package modes

import (
	"encoding/binary"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// KeystreamSource produces n bytes of keystream for one message.
type KeystreamSource interface {
	Keystream(key []byte, ctx Context, n int) ([]byte, error)
}

// StreamF8 drives a word generator with a per-message IV.  With SNOW 3G it is
// UEA2 and 128-EEA1.
type StreamF8 struct {
	Gen Generator
	IV  func(Context) []byte
}

func (s StreamF8) Keystream(key []byte, ctx Context, n int) ([]byte, error) {
	if s.IV == nil {
		return nil, fault.Invalid("modes.StreamF8", "iv", "no IV layout configured")
	}
	return keystream("modes.StreamF8", s.Gen, key, s.IV(ctx), n)
}

// f8 and f9 key modifier (TS 35.201)
var keyModifier = [KeySize]byte{
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
}

func modifiedKey(key []byte) []byte {
	return bits.Xor(key, keyModifier[:])
}

// BlockF8 is the UEA1 output feedback construction over a 64-bit block
// cipher.  With KASUMI it is f8 from TS 35.201.
type BlockF8 struct {
	New BlockFunc
}

func (b BlockF8) Keystream(key []byte, ctx Context, n int) ([]byte, error) {
	const op = "modes.BlockF8"
	ck, err := newBlock(op, b.New, key, 8)
	if err != nil {
		return nil, err
	}
	ckm, err := newBlock(op, b.New, modifiedKey(key), 8)
	if err != nil {
		return nil, err
	}

	a := make([]byte, 8)
	binary.BigEndian.PutUint32(a, ctx.Count)
	a[4] = byte(ctx.Bearer<<3 | ctx.Direction<<2)
	ckm.Encrypt(a, a)

	out := make([]byte, 0, n+8)
	ks := make([]byte, 8)
	ctr := make([]byte, 8)
	for blk := uint64(0); len(out) < n; blk++ {
		binary.BigEndian.PutUint64(ctr, blk)
		for i := range ks {
			ks[i] ^= a[i] ^ ctr[i]
		}
		ck.Encrypt(ks, ks)
		out = append(out, ks...)
	}
	return out[:n], nil
}

// F8 encrypts or decrypts bitLen bits of data with the keystream from src.
func F8(src KeystreamSource, key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	if src == nil {
		return nil, fault.Invalid("modes.F8", "source", "no keystream source configured")
	}
	msg, n, err := prepare("modes.F8", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	ks, err := src.Keystream(key, ctx, len(msg))
	if err != nil {
		return nil, err
	}
	if len(ks) < len(msg) {
		return nil, fault.Primitive("modes.F8", fault.Invalid("modes.F8", "keystream", "got %d of %d bytes", len(ks), len(msg)))
	}
	out := bits.Xor(msg, ks)
	bits.ZeroTail(out, n)
	return out, nil
}

// EEA1 is 128-EEA1 (and UEA2) with gen supplying SNOW 3G.
func EEA1(gen Generator, key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	return F8(StreamF8{Gen: gen, IV: SNOW3GCipherIV}, key, ctx, data, bitLen)
}
