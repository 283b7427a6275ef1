// Package modes turns block ciphers and keystream generators into the 3GPP
// confidentiality and integrity functions used on the radio and NAS layers:
// f8/f9 (UEA1, UIA1, UEA2, UIA2), 128-EEA1/EIA1, 128-EEA2/EIA2 and
// 128-EEA3/EIA3.
//
// Every function takes the message as (data, bitLen).  bitLen may be
// bits.AllBits.  Ciphertext is returned truncated to ceil(bitLen/8) bytes with
// the unused bits of the last byte cleared.
package modes

import (
	"crypto/cipher"
	"fmt"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// KeySize is the only key length the 128-bit algorithms accept.
const KeySize = 16

// MACSize is the length of every MAC-I.
const MACSize = 4

// MaxBearer is the largest 5-bit bearer identity.
const MaxBearer = 31

// Context carries the per-message protocol fields.  COUNT and FRESH are
// full 32-bit values.  Bearer must fit in 5 bits and Direction in 1.
type Context struct {
	Count     uint32
	Bearer    uint32
	Direction uint32
	Fresh     uint32
}

func (c Context) validate(op string) error {
	if c.Bearer > MaxBearer {
		return fault.Invalid(op, "bearer", "%d outside [0, %d]", c.Bearer, MaxBearer)
	}
	if c.Direction > 1 {
		return fault.Invalid(op, "direction", "%d is not 0 or 1", c.Direction)
	}
	return nil
}

// BlockFunc keys a block cipher.  KASUMI and AES are both plugged in this way.
type BlockFunc func(key []byte) (cipher.Block, error)

// Checks shared by every entry point.  Returns the truncated message and the
// resolved bit length.
func prepare(op string, key []byte, ctx Context, data []byte, bitLen int) ([]byte, int, error) {
	if err := fault.Length(op, "key", key, KeySize); err != nil {
		return nil, 0, err
	}
	if err := ctx.validate(op); err != nil {
		return nil, 0, err
	}
	n, err := bits.Resolve(data, bitLen)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return bits.Message{Data: data, BitLen: n}.Bytes(), n, nil
}

func newBlock(op string, fn BlockFunc, key []byte, size int) (cipher.Block, error) {
	if fn == nil {
		return nil, fault.Invalid(op, "cipher", "no block cipher configured")
	}
	b, err := fn(key)
	if err != nil {
		return nil, fault.Primitive(op, err)
	}
	if b.BlockSize() != size {
		return nil, fault.Invalid(op, "cipher", "block size %d, want %d", b.BlockSize(), size)
	}
	return b, nil
}
