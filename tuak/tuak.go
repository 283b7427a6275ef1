// Package tuak implements the 3GPP TUAK authentication and key generation
// functions (TS 35.231) on top of Keccak-p[1600].
//
// Every input field is written into the permutation state byte-reversed, and
// every output is read back reversed.  The instance byte selects the function,
// the requested output lengths and the key size.
package tuak

import (
	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
	"github.com/johnnyb/mobilecrypto/keccak"
)

// Field sizes in bytes
const (
	TOPSize  = 32
	RANDSize = 16
	SQNSize  = 6
	AMFSize  = 2
	AKSize   = 6
)

// Algorithm name written into every state
const algName = "TUAK1.0"

// State offsets
const (
	offTOP      = 0
	offInstance = 32
	offName     = 33
	offRAND     = 40
	offAMF      = 56
	offSQN      = 58
	offKey      = 64
	offPad      = 96
	offPadEnd   = 135
	offCK       = 32
	offIK       = 64
	offAK       = 96
)

// Instance bytes
const (
	instTOPc   = 0x00
	instF1Star = 0x80
	instF5Star = 0xc0
	instCK256  = 0x04
	instIK256  = 0x02
	instKey256 = 0x01
)

var macInstance = map[int]byte{64: 0x08, 128: 0x10, 256: 0x20}
var resInstance = map[int]byte{32: 0x40, 64: 0x48, 128: 0x50, 256: 0x60}

// TUAK is one subscriber key with its TOPc and output-length settings.
// Nothing in it changes after construction.
type TUAK struct {
	key  []byte
	topc [TOPSize]byte
	cfg  settings
}

// New derives TOPc from the operator variant TOP.
func New(key, top []byte, opts ...Option) (*TUAK, error) {
	t, err := build("tuak.New", key, opts)
	if err != nil {
		return nil, err
	}
	if err := fault.Length("tuak.New", "top", top, TOPSize); err != nil {
		return nil, err
	}
	copy(t.topc[:], t.deriveTOPc(top))
	return t, nil
}

// NewWithTOPc uses a TOPc computed ahead of time.
func NewWithTOPc(key, topc []byte, opts ...Option) (*TUAK, error) {
	t, err := build("tuak.NewWithTOPc", key, opts)
	if err != nil {
		return nil, err
	}
	if err := fault.Length("tuak.NewWithTOPc", "topc", topc, TOPSize); err != nil {
		return nil, err
	}
	copy(t.topc[:], topc)
	return t, nil
}

// MakeTOPc derives TOPc without keeping an instance around.
func MakeTOPc(key, top []byte, opts ...Option) ([]byte, error) {
	t, err := New(key, top, opts...)
	if err != nil {
		return nil, err
	}
	return t.TOPc(), nil
}

func build(op string, key []byte, opts []Option) (*TUAK, error) {
	if err := fault.Length(op, "key", key, 16, 32); err != nil {
		return nil, err
	}
	cfg, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return &TUAK{key: append([]byte(nil), key...), cfg: cfg}, nil
}

// TOPc returns a copy of the derived operator constant.
func (t *TUAK) TOPc() []byte {
	return append([]byte(nil), t.topc[:]...)
}

// F1 computes MAC-A.
func (t *TUAK) F1(rand, sqn, amf []byte) ([]byte, error) {
	return t.f1("tuak.F1", 0, rand, sqn, amf)
}

// F1Star computes MAC-S.
func (t *TUAK) F1Star(rand, sqn, amf []byte) ([]byte, error) {
	return t.f1("tuak.F1Star", instF1Star, rand, sqn, amf)
}

func (t *TUAK) f1(op string, star byte, rand, sqn, amf []byte) ([]byte, error) {
	if err := fault.Length(op, "rand", rand, RANDSize); err != nil {
		return nil, err
	}
	if err := fault.Length(op, "sqn", sqn, SQNSize); err != nil {
		return nil, err
	}
	if err := fault.Length(op, "amf", amf, AMFSize); err != nil {
		return nil, err
	}
	inst := macInstance[t.cfg.macBits] | star
	out := t.run(t.topc[:], inst, rand, sqn, amf)
	return extract(out, 0, t.cfg.macBits/8), nil
}

// F2345 returns RES, CK, IK and AK, each at its configured length.
func (t *TUAK) F2345(rand []byte) (res, ck, ik, ak []byte, err error) {
	if err := fault.Length("tuak.F2345", "rand", rand, RANDSize); err != nil {
		return nil, nil, nil, nil, err
	}
	inst := resInstance[t.cfg.resBits]
	if t.cfg.ckBits == 256 {
		inst += instCK256
	}
	if t.cfg.ikBits == 256 {
		inst += instIK256
	}
	out := t.run(t.topc[:], inst, rand, nil, nil)
	res = extract(out, 0, t.cfg.resBits/8)
	ck = extract(out, offCK, t.cfg.ckBits/8)
	ik = extract(out, offIK, t.cfg.ikBits/8)
	ak = extract(out, offAK, AKSize)
	return res, ck, ik, ak, nil
}

// F5Star computes AK for resynchronisation.
func (t *TUAK) F5Star(rand []byte) ([]byte, error) {
	if err := fault.Length("tuak.F5Star", "rand", rand, RANDSize); err != nil {
		return nil, err
	}
	out := t.run(t.topc[:], instF5Star, rand, nil, nil)
	return extract(out, offAK, AKSize), nil
}

func (t *TUAK) deriveTOPc(top []byte) []byte {
	out := t.run(top, instTOPc, nil, nil, nil)
	return extract(out, offTOP, TOPSize)
}

// Fill the state, run the permutation and hand the state back.  A nil rand,
// sqn or amf leaves its field zero.
func (t *TUAK) run(top []byte, inst byte, rand, sqn, amf []byte) *[keccak.StateSize]byte {
	if len(t.key) == 32 {
		inst += instKey256
	}

	var st [keccak.StateSize]byte
	putReversed(st[offTOP:], top)
	st[offInstance] = inst
	putReversed(st[offName:], []byte(algName))
	putReversed(st[offRAND:], rand)
	putReversed(st[offAMF:], amf)
	putReversed(st[offSQN:], sqn)
	putReversed(st[offKey:], t.key)
	st[offPad] = 0x1f
	st[offPadEnd] = 0x80

	for i := 0; i < t.cfg.iterations; i++ {
		t.cfg.permuter.Permute(&st)
	}
	return &st
}

func putReversed(dst, src []byte) {
	copy(dst, bits.Reverse(src))
}

func extract(st *[keccak.StateSize]byte, off, n int) []byte {
	return bits.Reverse(st[off : off+n])
}
