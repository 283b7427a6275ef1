// Package bits handles byte buffers whose meaningful length is counted in bits.
//
// Every algorithm in this module takes a message as a (data, bitLen) pair.
// Bits of data past bitLen are ignored on input and always zero on output.
package bits

import (
	"crypto/subtle"

	"github.com/johnnyb/mobilecrypto/fault"
)

const (
	// AllBits selects 8*len(data) as the bit length.
	AllBits = -1

	// MaxBytes is the largest message any function in this module accepts.
	MaxBytes = 16 << 20
)

// Message pairs a byte buffer with its bit length.
type Message struct {
	Data   []byte
	BitLen int
}

// New validates bitLen against data.  AllBits is resolved here.
func New(data []byte, bitLen int) (Message, error) {
	n, err := Resolve(data, bitLen)
	if err != nil {
		return Message{}, err
	}
	return Message{Data: data, BitLen: n}, nil
}

// Whole wraps a byte-aligned buffer.
func Whole(data []byte) Message {
	return Message{Data: data, BitLen: 8 * len(data)}
}

// Bytes returns a fresh copy truncated to BitLen with trailing bits cleared.
func (m Message) Bytes() []byte {
	out := make([]byte, ByteLen(m.BitLen))
	copy(out, m.Data)
	ZeroTail(out, m.BitLen)
	return out
}

// Number of bytes needed to hold bitLen bits
func ByteLen(bitLen int) int {
	return (bitLen + 7) / 8
}

// Resolve applies the AllBits default and checks bitLen against data.
func Resolve(data []byte, bitLen int) (int, error) {
	if len(data) > MaxBytes {
		return 0, fault.Invalid("bits.Resolve", "data", "%d bytes exceeds the %d byte limit", len(data), MaxBytes)
	}
	if bitLen == AllBits {
		return 8 * len(data), nil
	}
	if bitLen < 0 || bitLen > 8*len(data) {
		return 0, fault.Invalid("bits.Resolve", "bitLen", "%d outside [0, %d]", bitLen, 8*len(data))
	}
	return bitLen, nil
}

// Truncate returns ceil(bitLen/8) bytes of data with the bits past bitLen set
// to zero.  data is not modified.
func Truncate(data []byte, bitLen int) ([]byte, error) {
	n, err := Resolve(data, bitLen)
	if err != nil {
		return nil, err
	}
	return Message{Data: data, BitLen: n}.Bytes(), nil
}

// ZeroTail clears, in place, every bit of buf from position bitLen onward.
func ZeroTail(buf []byte, bitLen int) {
	if bitLen < 0 {
		bitLen = 0
	}
	full := bitLen / 8
	if full >= len(buf) {
		return
	}
	if r := bitLen % 8; r != 0 {
		buf[full] &= byte(0xff << (8 - r))
		full++
	}
	for i := full; i < len(buf); i++ {
		buf[i] = 0
	}
}

// PadWithBit truncates data to bitLen bits, appends a single 1 bit and fills
// with zeros up to the next multiple of blockSize bytes.  A message that
// already ends on a block boundary gains a whole block of padding.
func PadWithBit(data []byte, bitLen, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, fault.Invalid("bits.PadWithBit", "blockSize", "must be positive, got %d", blockSize)
	}
	n, err := Resolve(data, bitLen)
	if err != nil {
		return nil, err
	}
	size := ByteLen(n + 1)
	if r := size % blockSize; r != 0 {
		size += blockSize - r
	}
	out := make([]byte, size)
	copy(out, data[:ByteLen(n)])
	ZeroTail(out, n)
	SetBit(out, n)
	return out, nil
}

// SetBit sets bit pos of buf, counting from the most significant bit of buf[0].
func SetBit(buf []byte, pos int) {
	buf[pos/8] |= 0x80 >> uint(pos%8)
}

// Bit returns bit pos of buf as 0 or 1.
func Bit(buf []byte, pos int) byte {
	return (buf[pos/8] >> uint(7-pos%8)) & 1
}

// Xor returns a XOR b over the shorter of the two.
func Xor(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, n)
	subtle.XORBytes(out, a[:n], b[:n])
	return out
}

// Reverse returns a reversed copy of b.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
