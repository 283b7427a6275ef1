package modes

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/cmac"
	"github.com/johnnyb/mobilecrypto/fault"
)

// COUNT || BEARER || DIRECTION || 0^26, the 64-bit prefix shared by EEA2 and
// EIA2.
func aesPrefix(ctx Context) []byte {
	p := make([]byte, 8)
	binary.BigEndian.PutUint32(p[0:], ctx.Count)
	binary.BigEndian.PutUint32(p[4:], ctx.Bearer<<27|ctx.Direction<<26)
	return p
}

// EEA2 is 128-EEA2: AES-128 in counter mode with the initial counter block
// COUNT || BEARER || DIRECTION || 0.
func EEA2(key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	msg, n, err := prepare("modes.EEA2", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fault.Primitive("modes.EEA2", err)
	}

	iv := make([]byte, aes.BlockSize)
	copy(iv, aesPrefix(ctx))
	out := make([]byte, len(msg))
	cipher.NewCTR(block, iv).XORKeyStream(out, msg)
	bits.ZeroTail(out, n)
	return out, nil
}

// EIA2 is 128-EIA2: a 32-bit AES-CMAC over COUNT || BEARER || DIRECTION ||
// 0^26 || MESSAGE.
func EIA2(key []byte, ctx Context, data []byte, bitLen int) ([]byte, error) {
	msg, n, err := prepare("modes.EIA2", key, ctx, data, bitLen)
	if err != nil {
		return nil, err
	}
	mac, err := cmac.NewAES(key, 8*MACSize)
	if err != nil {
		return nil, err
	}
	return mac.SumWithHeader(aesPrefix(ctx), msg, n)
}
