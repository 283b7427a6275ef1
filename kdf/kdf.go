// Package kdf implements the 3GPP key derivation function of TS 33.220
// annex B and the key conversions built on it for UMTS/GSM interworking
// (TS 33.102), EPS (TS 33.401) and 5GS (TS 33.501).
package kdf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/johnnyb/mobilecrypto/fault"
)

// KeySize is the length of every KDF output.
const KeySize = sha256.Size

// Algorithm type distinguishers, shared by TS 33.401 A.7 and TS 33.501 A.8.
const (
	NASEnc = 0x01
	NASInt = 0x02
	RRCEnc = 0x03
	RRCInt = 0x04
	UPEnc  = 0x05
	UPInt  = 0x06
)

// Access type distinguishers for KgNB / KN3IWF.
const (
	Access3GPP    = 0x01
	AccessNon3GPP = 0x02
)

// KDF is HMAC-SHA-256(key, s).
func KDF(key, s []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(s)
	return h.Sum(nil)
}

// Derive builds S = FC || P0 || L0 || P1 || L1 ... and returns KDF(key, S).
// Each Li is the 16-bit big-endian length of Pi.
func Derive(key []byte, fc byte, params ...[]byte) ([]byte, error) {
	size := 1
	for i, p := range params {
		if len(p) > 0xffff {
			return nil, fault.Invalid("kdf.Derive", "params", "P%d is %d bytes", i, len(p))
		}
		size += len(p) + 2
	}
	s := make([]byte, 1, size)
	s[0] = fc
	for _, p := range params {
		s = append(s, p...)
		s = binary.BigEndian.AppendUint16(s, uint16(len(p)))
	}
	return KDF(key, s), nil
}

// Key128 returns the 128 least significant bits of a derived key, which is
// what the 128-bit ciphering and integrity algorithms take.
func Key128(key []byte) []byte {
	if len(key) < 16 {
		return nil
	}
	return append([]byte(nil), key[len(key)-16:]...)
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func uint32Param(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func checkRange(op, field string, buf []byte, lo, hi int) error {
	if len(buf) < lo || len(buf) > hi {
		return fault.Invalid(op, field, "want %d to %d bytes, got %d", lo, hi, len(buf))
	}
	return nil
}
