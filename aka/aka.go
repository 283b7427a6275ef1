// Package aka assembles authentication vectors, checks AUTN and handles
// resynchronisation on top of any f1..f5* implementation (TS 33.102 6.3).
package aka

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
)

// Functions is what both MILENAGE and TUAK provide.
type Functions interface {
	F1(rand, sqn, amf []byte) ([]byte, error)
	F1Star(rand, sqn, amf []byte) ([]byte, error)
	F2345(rand []byte) (res, ck, ik, ak []byte, err error)
	F5Star(rand []byte) ([]byte, error)
}

const (
	RANDSize = 16
	SQNSize  = 6
	AMFSize  = 2
	AKSize   = 6

	// MaxSQN is the largest 48-bit sequence number.
	MaxSQN = 1<<48 - 1
)

// ErrMACMismatch is returned when MAC-A or MAC-S does not verify.
var ErrMACMismatch = errors.New("MAC mismatch")

// AMF used for MAC-S during resynchronisation
var resyncAMF = []byte{0x00, 0x00}

// Vector is one authentication vector.
type Vector struct {
	RAND []byte
	XRES []byte
	CK   []byte
	IK   []byte
	AK   []byte
	MAC  []byte
	AUTN []byte
}

// Generate builds a vector for sqn and amf.  A nil rand draws a fresh
// challenge from crypto/rand.
func Generate(f Functions, rand, sqn, amf []byte) (*Vector, error) {
	if rand == nil {
		var err error
		if rand, err = NewRAND(); err != nil {
			return nil, err
		}
	}

	macA, err := f.F1(rand, sqn, amf)
	if err != nil {
		return nil, fmt.Errorf("f1: %w", err)
	}
	res, ck, ik, ak, err := f.F2345(rand)
	if err != nil {
		return nil, fmt.Errorf("f2345: %w", err)
	}

	autn, err := AUTN(sqn, ak, amf, macA)
	if err != nil {
		return nil, err
	}

	return &Vector{
		RAND: append([]byte(nil), rand...),
		XRES: res,
		CK:   ck,
		IK:   ik,
		AK:   ak,
		MAC:  macA,
		AUTN: autn,
	}, nil
}

// NewRAND returns a random 128-bit challenge.
func NewRAND() ([]byte, error) {
	r := make([]byte, RANDSize)
	if _, err := rand.Read(r); err != nil {
		return nil, fault.Primitive("aka.NewRAND", err)
	}
	return r, nil
}

// AUTN = (SQN xor AK) || AMF || MAC-A.  MAC-A is 64 bits for MILENAGE and
// 64, 128 or 256 bits for TUAK.
func AUTN(sqn, ak, amf, macA []byte) ([]byte, error) {
	err := fault.Join(
		fault.Length("aka.AUTN", "sqn", sqn, SQNSize),
		fault.Length("aka.AUTN", "ak", ak, AKSize),
		fault.Length("aka.AUTN", "amf", amf, AMFSize),
		fault.Length("aka.AUTN", "mac", macA, 8, 16, 32))
	if err != nil {
		return nil, err
	}
	autn := make([]byte, 0, SQNSize+AMFSize+len(macA))
	autn = append(autn, bits.Xor(sqn, ak)...)
	autn = append(autn, amf...)
	autn = append(autn, macA...)
	return autn, nil
}

// VerifyAUTN is the USIM side of the challenge: it recovers SQN from AUTN and
// checks MAC-A.  The MAC length is whatever follows the AMF.
func VerifyAUTN(f Functions, rand, autn []byte) (sqn, amf []byte, err error) {
	if len(autn) < SQNSize+AMFSize+8 {
		return nil, nil, fault.Invalid("aka.VerifyAUTN", "autn", "%d bytes is too short", len(autn))
	}
	_, _, _, ak, err := f.F2345(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("f5: %w", err)
	}
	sqn = bits.Xor(autn[:SQNSize], ak)
	amf = append([]byte(nil), autn[SQNSize:SQNSize+AMFSize]...)

	xmac, err := f.F1(rand, sqn, amf)
	if err != nil {
		return nil, nil, fmt.Errorf("f1: %w", err)
	}
	if subtle.ConstantTimeCompare(xmac, autn[SQNSize+AMFSize:]) != 1 {
		return nil, nil, ErrMACMismatch
	}
	return sqn, amf, nil
}

// BuildAUTS is sent by the USIM when SQN is out of range:
// AUTS = (SQN_MS xor AK*) || MAC-S.
func BuildAUTS(f Functions, rand, sqnMS []byte) ([]byte, error) {
	akStar, err := f.F5Star(rand)
	if err != nil {
		return nil, fmt.Errorf("f5*: %w", err)
	}
	macS, err := f.F1Star(rand, sqnMS, resyncAMF)
	if err != nil {
		return nil, fmt.Errorf("f1*: %w", err)
	}
	return append(bits.Xor(sqnMS, akStar), macS...), nil
}

// Resync is the network side of BuildAUTS.  It returns SQN_MS once MAC-S has
// been checked.
func Resync(f Functions, rand, auts []byte) ([]byte, error) {
	if len(auts) < SQNSize+8 {
		return nil, fault.Invalid("aka.Resync", "auts", "%d bytes is too short", len(auts))
	}
	akStar, err := f.F5Star(rand)
	if err != nil {
		return nil, fmt.Errorf("f5*: %w", err)
	}
	sqnMS := bits.Xor(auts[:SQNSize], akStar)

	macS, err := f.F1Star(rand, sqnMS, resyncAMF)
	if err != nil {
		return nil, fmt.Errorf("f1*: %w", err)
	}
	if subtle.ConstantTimeCompare(macS, auts[SQNSize:]) != 1 {
		return nil, ErrMACMismatch
	}
	return sqnMS, nil
}

// SQNToBytes encodes a 48-bit sequence number big-endian.
func SQNToBytes(sqn uint64) ([]byte, error) {
	if sqn > MaxSQN {
		return nil, fault.Invalid("aka.SQNToBytes", "sqn", "%#x exceeds 48 bits", sqn)
	}
	b := make([]byte, SQNSize)
	for i := range b {
		b[i] = byte(sqn >> (8 * uint(SQNSize-1-i)))
	}
	return b, nil
}

// BytesToSQN decodes a 6 byte sequence number.
func BytesToSQN(b []byte) (uint64, error) {
	if err := fault.Length("aka.BytesToSQN", "sqn", b, SQNSize); err != nil {
		return 0, err
	}
	var sqn uint64
	for _, v := range b {
		sqn = sqn<<8 | uint64(v)
	}
	return sqn, nil
}
