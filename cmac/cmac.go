// Package cmac implements the NIST SP 800-38B CMAC over bit-length messages,
// as used by 128-EIA2 and the 3GPP key hierarchy.
package cmac

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// Number of bytes in a block
const BlockSize = 16

// FullTag selects an untruncated tag.
const FullTag = 8 * BlockSize

// Reduction constant for doubling in GF(2^128)
const rb = 0x87

// CMAC holds a keyed block cipher with its two subkeys.  It is never modified
// after New returns, so one value may be shared between goroutines.
type CMAC struct {
	block   cipher.Block
	k1      [BlockSize]byte
	k2      [BlockSize]byte
	tagBits int
}

// New derives the subkeys for block and fixes the tag length in bits.
func New(block cipher.Block, tagBits int) (*CMAC, error) {
	if block == nil {
		return nil, fault.Invalid("cmac.New", "block", "nil cipher")
	}
	if block.BlockSize() != BlockSize {
		return nil, fault.Invalid("cmac.New", "block", "block size %d, want %d", block.BlockSize(), BlockSize)
	}
	if tagBits <= 0 || tagBits > FullTag {
		return nil, fault.Invalid("cmac.New", "tagBits", "%d outside (0, %d]", tagBits, FullTag)
	}

	c := &CMAC{block: block, tagBits: tagBits}
	var l [BlockSize]byte
	block.Encrypt(l[:], l[:])
	c.k1 = Double(l)
	c.k2 = Double(c.k1)
	return c, nil
}

// NewAES is New over crypto/aes.
func NewAES(key []byte, tagBits int) (*CMAC, error) {
	if err := fault.Length("cmac.NewAES", "key", key, 16, 24, 32); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fault.Primitive("cmac.NewAES", err)
	}
	return New(block, tagBits)
}

// Compute is the one-shot form: key newCipher, then MAC the first bitLen bits
// of data.
func Compute(newCipher func([]byte) (cipher.Block, error), key, data []byte, bitLen, tagBits int) ([]byte, error) {
	if tagBits <= 0 || tagBits > FullTag {
		return nil, fault.Invalid("cmac.Compute", "tagBits", "%d outside (0, %d]", tagBits, FullTag)
	}
	block, err := newCipher(key)
	if err != nil {
		return nil, fault.Primitive("cmac.Compute", err)
	}
	c, err := New(block, tagBits)
	if err != nil {
		return nil, err
	}
	return c.Sum(data, bitLen)
}

// Double multiplies x by the generator of GF(2^128).
func Double(x [BlockSize]byte) [BlockSize]byte {
	var out [BlockSize]byte
	msb := x[0] >> 7
	for i := 0; i < BlockSize-1; i++ {
		out[i] = x[i]<<1 | x[i+1]>>7
	}
	out[BlockSize-1] = x[BlockSize-1] << 1
	out[BlockSize-1] ^= byte(subtle.ConstantTimeSelect(int(msb), rb, 0))
	return out
}

// Subkeys returns copies of K1 and K2.
func (c *CMAC) Subkeys() (k1, k2 []byte) {
	k1 = append([]byte(nil), c.k1[:]...)
	k2 = append([]byte(nil), c.k2[:]...)
	return
}

// TagBits is the configured tag length.
func (c *CMAC) TagBits() int {
	return c.tagBits
}

// Sum returns the tag over the first bitLen bits of data.  bitLen may be
// bits.AllBits.  The tag is ceil(tagBits/8) bytes with unused bits zeroed.
func (c *CMAC) Sum(data []byte, bitLen int) ([]byte, error) {
	n, err := bits.Resolve(data, bitLen)
	if err != nil {
		return nil, err
	}
	return c.sum(bits.Message{Data: data, BitLen: n}.Bytes(), n), nil
}

// SumWithHeader returns the tag over header followed by the first bitLen bits
// of data.  The header is whole bytes and does not count towards
// bits.MaxBytes.
func (c *CMAC) SumWithHeader(header, data []byte, bitLen int) ([]byte, error) {
	n, err := bits.Resolve(data, bitLen)
	if err != nil {
		return nil, err
	}
	total := 8*len(header) + n
	msg := make([]byte, bits.ByteLen(total))
	copy(msg, header)
	copy(msg[len(header):], data[:bits.ByteLen(n)])
	bits.ZeroTail(msg, total)
	return c.sum(msg, total), nil
}

// msg holds exactly n bits with the tail cleared.
func (c *CMAC) sum(msg []byte, n int) []byte {
	blocks := (len(msg) + BlockSize - 1) / BlockSize
	if blocks == 0 {
		blocks = 1
	}

	var x [BlockSize]byte
	for i := 0; i < blocks-1; i++ {
		subtle.XORBytes(x[:], x[:], msg[i*BlockSize:(i+1)*BlockSize])
		c.block.Encrypt(x[:], x[:])
	}

	var last [BlockSize]byte
	copy(last[:], msg[(blocks-1)*BlockSize:])
	if n > 0 && n%FullTag == 0 {
		subtle.XORBytes(last[:], last[:], c.k1[:])
	} else {
		bits.SetBit(last[:], n%FullTag)
		subtle.XORBytes(last[:], last[:], c.k2[:])
	}
	subtle.XORBytes(x[:], x[:], last[:])
	c.block.Encrypt(x[:], x[:])

	if c.tagBits == FullTag {
		return x[:]
	}
	return bits.Message{Data: x[:], BitLen: c.tagBits}.Bytes()
}

// Verify recomputes the tag and compares it in constant time.
func (c *CMAC) Verify(data []byte, bitLen int, mac []byte) (bool, error) {
	sum, err := c.Sum(data, bitLen)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(sum, mac) == 1, nil
}

// CBCMAC is the plain CBC-MAC of block-aligned data with a zero IV.
func CBCMAC(block cipher.Block, data []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, fault.Invalid("cmac.CBCMAC", "data", "length %d is not a positive multiple of %d", len(data), bs)
	}
	x := make([]byte, bs)
	for i := 0; i < len(data); i += bs {
		subtle.XORBytes(x, x, data[i:i+bs])
		block.Encrypt(x, x)
	}
	return x, nil
}
