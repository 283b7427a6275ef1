// Package milenage implements the 3GPP MILENAGE authentication and key
// generation functions f1, f1*, f2, f3, f4, f5 and f5* (TS 35.206).
package milenage

import (
	"crypto/cipher"
	"crypto/subtle"

	"github.com/johnnyb/mobilecrypto/fault"
)

// Number of bytes in a block
const blocksize = 16

// Field sizes in bytes
const (
	KeySize  = 16
	RANDSize = 16
	SQNSize  = 6
	AMFSize  = 2
	MACSize  = 8
	RESSize  = 8
	AKSize   = 6
)

// Rotation amounts r1..r5 in bits
var rotations = [5]int{64, 0, 32, 64, 96}

// Constants c1..c5 only differ in their last byte
var constants = [5]byte{0, 1, 2, 4, 8}

// Milenage is one subscriber key with its OPc.  Both are fixed at
// construction and never change, so a single value can serve concurrent
// callers.
type Milenage struct {
	block cipher.Block
	opc   [blocksize]byte
}

// New derives OPc from the operator variant OP.
func New(key, op []byte) (*Milenage, error) {
	if err := checkKey("milenage.New", key); err != nil {
		return nil, err
	}
	if err := fault.Length("milenage.New", "op", op, blocksize); err != nil {
		return nil, err
	}
	m := &Milenage{block: newBlock(key)}
	encryptWith(m.block, m.opc[:], op)
	subtle.XORBytes(m.opc[:], m.opc[:], op)
	return m, nil
}

// NewWithOPc uses an OPc that was computed ahead of time.
func NewWithOPc(key, opc []byte) (*Milenage, error) {
	if err := checkKey("milenage.NewWithOPc", key); err != nil {
		return nil, err
	}
	if err := fault.Length("milenage.NewWithOPc", "opc", opc, blocksize); err != nil {
		return nil, err
	}
	m := &Milenage{block: newBlock(key)}
	copy(m.opc[:], opc)
	return m, nil
}

// MakeOPc computes AES(K, OP) xor OP.
func MakeOPc(key, op []byte) ([]byte, error) {
	m, err := New(key, op)
	if err != nil {
		return nil, err
	}
	return m.OPc(), nil
}

// OPc returns a copy of the derived operator constant.
func (m *Milenage) OPc() []byte {
	return append([]byte(nil), m.opc[:]...)
}

// F1 computes the network authentication code MAC-A.
func (m *Milenage) F1(rand, sqn, amf []byte) ([]byte, error) {
	out, err := m.out1("milenage.F1", rand, sqn, amf)
	if err != nil {
		return nil, err
	}
	return out[:MACSize:MACSize], nil
}

// F1Star computes the resynchronisation code MAC-S.
func (m *Milenage) F1Star(rand, sqn, amf []byte) ([]byte, error) {
	out, err := m.out1("milenage.F1Star", rand, sqn, amf)
	if err != nil {
		return nil, err
	}
	return out[MACSize:], nil
}

// F2345 returns RES, CK, IK and AK for one challenge.
func (m *Milenage) F2345(rand []byte) (res, ck, ik, ak []byte, err error) {
	temp, err := m.temp("milenage.F2345", rand)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	out2 := m.outK(temp, 1)
	out3 := m.outK(temp, 2)
	out4 := m.outK(temp, 3)
	return out2[8:16:16], out3, out4, out2[:AKSize:AKSize], nil
}

// F5Star computes the resynchronisation anonymity key AK*.
func (m *Milenage) F5Star(rand []byte) ([]byte, error) {
	temp, err := m.temp("milenage.F5Star", rand)
	if err != nil {
		return nil, err
	}
	return m.outK(temp, 4)[:AKSize:AKSize], nil
}

// TEMP = E[RAND xor OPc]K
func (m *Milenage) temp(op string, rand []byte) ([]byte, error) {
	if err := fault.Length(op, "rand", rand, RANDSize); err != nil {
		return nil, err
	}
	t := make([]byte, blocksize)
	subtle.XORBytes(t, rand, m.opc[:])
	encryptWith(m.block, t, t)
	return t, nil
}

// OUT1 = E[TEMP xor rot(IN1 xor OPc, r1) xor c1]K xor OPc
func (m *Milenage) out1(op string, rand, sqn, amf []byte) ([]byte, error) {
	if err := fault.Length(op, "sqn", sqn, SQNSize); err != nil {
		return nil, err
	}
	if err := fault.Length(op, "amf", amf, AMFSize); err != nil {
		return nil, err
	}
	temp, err := m.temp(op, rand)
	if err != nil {
		return nil, err
	}

	in1 := make([]byte, 0, blocksize)
	in1 = append(in1, sqn...)
	in1 = append(in1, amf...)
	in1 = append(in1, sqn...)
	in1 = append(in1, amf...)

	subtle.XORBytes(in1, in1, m.opc[:])
	x := rotate(in1, rotations[0])
	x[blocksize-1] ^= constants[0]
	subtle.XORBytes(x, x, temp)
	encryptWith(m.block, x, x)
	subtle.XORBytes(x, x, m.opc[:])
	return x, nil
}

// OUTk = E[rot(TEMP xor OPc, rk) xor ck]K xor OPc, with k counted from zero
func (m *Milenage) outK(temp []byte, k int) []byte {
	x := make([]byte, blocksize)
	subtle.XORBytes(x, temp, m.opc[:])
	x = rotate(x, rotations[k])
	x[blocksize-1] ^= constants[k]
	encryptWith(m.block, x, x)
	subtle.XORBytes(x, x, m.opc[:])
	return x
}
