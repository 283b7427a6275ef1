package aka

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnyb/mobilecrypto/fault"
	"github.com/johnnyb/mobilecrypto/milenage"
	"github.com/johnnyb/mobilecrypto/tuak"
)

func mustDecodeString(str string) []byte {
	str = strings.ReplaceAll(str, "-", "")
	str = strings.ReplaceAll(str, " ", "")
	v, err := hex.DecodeString(str)
	if err != nil {
		panic(err)
	}
	return v
}

// TS 35.208 test set 1
func newMilenage(t *testing.T) Functions {
	m, err := milenage.New(
		mustDecodeString("465b5ce8b199b49faa5f0a2ee238a6bc"),
		mustDecodeString("cdc202d5123e20f62b6d676ac72cb318"))
	require.NoError(t, err)
	return m
}

// TS 35.232 test set 1
func newTUAK(t *testing.T) Functions {
	tk, err := tuak.New(
		mustDecodeString("abababababababababababababababab"),
		mustDecodeString("5555555555555555555555555555555555555555555555555555555555555555"),
		tuak.WithRESBits(32))
	require.NoError(t, err)
	return tk
}

func TestGenerateMilenage(t *testing.T) {
	rand := mustDecodeString("23553cbe9637a89d218ae64dae47bf35")
	v, err := Generate(newMilenage(t), rand, mustDecodeString("ff9bb4d0b607"), mustDecodeString("b9b9"))
	require.NoError(t, err)

	assert.Equal(t, rand, v.RAND)
	assert.Equal(t, mustDecodeString("a54211d5e3ba50bf"), v.XRES)
	assert.Equal(t, mustDecodeString("b40ba9a3c58b2a05bbf0d987b21bf8cb"), v.CK)
	assert.Equal(t, mustDecodeString("f769bcd751044604127672711c6d3441"), v.IK)
	assert.Equal(t, mustDecodeString("aa689c648370"), v.AK)
	assert.Equal(t, mustDecodeString("55f328b43577 b9b9 4a9ffac354dfafb3"), v.AUTN)
}

func TestGenerateRandomChallenge(t *testing.T) {
	f := newMilenage(t)
	v1, err := Generate(f, nil, mustDecodeString("000000000020"), mustDecodeString("8000"))
	require.NoError(t, err)
	v2, err := Generate(f, nil, mustDecodeString("000000000020"), mustDecodeString("8000"))
	require.NoError(t, err)

	assert.Len(t, v1.RAND, RANDSize)
	assert.NotEqual(t, v1.RAND, v2.RAND)
	assert.Len(t, v1.AUTN, 16)
}

func TestVerifyAUTN(t *testing.T) {
	for name, f := range map[string]Functions{"milenage": newMilenage(t), "tuak": newTUAK(t)} {
		t.Run(name, func(t *testing.T) {
			rand := mustDecodeString("42424242424242424242424242424242")
			sqn := mustDecodeString("0000000001a0")
			amf := mustDecodeString("8000")

			v, err := Generate(f, rand, sqn, amf)
			require.NoError(t, err)

			gotSQN, gotAMF, err := VerifyAUTN(f, rand, v.AUTN)
			require.NoError(t, err)
			assert.Equal(t, sqn, gotSQN)
			assert.Equal(t, amf, gotAMF)

			v.AUTN[len(v.AUTN)-1] ^= 1
			_, _, err = VerifyAUTN(f, rand, v.AUTN)
			assert.ErrorIs(t, err, ErrMACMismatch)

			_, _, err = VerifyAUTN(f, rand, v.AUTN[:10])
			assert.ErrorIs(t, err, fault.ErrInvalidArgument)
		})
	}
}

func TestResync(t *testing.T) {
	for name, f := range map[string]Functions{"milenage": newMilenage(t), "tuak": newTUAK(t)} {
		t.Run(name, func(t *testing.T) {
			rand := mustDecodeString("23553cbe9637a89d218ae64dae47bf35")
			sqnMS := mustDecodeString("00000000ff20")

			auts, err := BuildAUTS(f, rand, sqnMS)
			require.NoError(t, err)
			assert.Len(t, auts, 14)

			got, err := Resync(f, rand, auts)
			require.NoError(t, err)
			assert.Equal(t, sqnMS, got)

			auts[7] ^= 0x40
			_, err = Resync(f, rand, auts)
			assert.ErrorIs(t, err, ErrMACMismatch)

			_, err = Resync(f, rand, auts[:13])
			assert.ErrorIs(t, err, fault.ErrInvalidArgument)
		})
	}
}

// AUTS for test set 1 starts with SQN_MS xor AK*
func TestAUTSConcealment(t *testing.T) {
	f := newMilenage(t)
	auts, err := BuildAUTS(f, mustDecodeString("23553cbe9637a89d218ae64dae47bf35"), make([]byte, 6))
	require.NoError(t, err)
	assert.Equal(t, mustDecodeString("451e8beca43b"), auts[:6])
}

func TestAUTN(t *testing.T) {
	sqn := mustDecodeString("ff9bb4d0b607")
	ak := mustDecodeString("aa689c648370")
	amf := mustDecodeString("b9b9")
	macA := mustDecodeString("4a9ffac354dfafb3")

	autn, err := AUTN(sqn, ak, amf, macA)
	require.NoError(t, err)
	assert.Equal(t, mustDecodeString("55f328b43577 b9b9 4a9ffac354dfafb3"), autn)

	// TUAK may use a 256-bit MAC-A
	autn, err = AUTN(sqn, ak, amf, make([]byte, 32))
	require.NoError(t, err)
	assert.Len(t, autn, 40)

	_, err = AUTN(sqn[:5], ak, amf, macA)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	_, err = AUTN(sqn, ak[:4], amf, macA)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	_, err = AUTN(sqn, ak, amf[:1], macA)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	_, err = AUTN(sqn, ak, amf, macA[:4])
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestSQNConversion(t *testing.T) {
	b, err := SQNToBytes(0x0000000000020)
	require.NoError(t, err)
	assert.Equal(t, mustDecodeString("000000000020"), b)

	b, err = SQNToBytes(MaxSQN)
	require.NoError(t, err)
	assert.Equal(t, mustDecodeString("ffffffffffff"), b)

	_, err = SQNToBytes(MaxSQN + 1)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)

	sqn, err := BytesToSQN(mustDecodeString("ff9bb4d0b607"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff9bb4d0b607), sqn)

	_, err = BytesToSQN([]byte{1, 2, 3})
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(newMilenage(t), make([]byte, 16), make([]byte, 5), make([]byte, 2))
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}
