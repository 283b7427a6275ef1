package cmac

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	aeadcmac "github.com/aead/cmac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnnyb/mobilecrypto/bits"
	"github.com/johnnyb/mobilecrypto/fault"
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

func newAES(key []byte) (cipher.Block, error) {
	return aes.NewCipher(key)
}

// RFC 4493 section 4
var rfcKey = mustDecodeString("2b7e1516 28aed2a6 abf71588 09cf4f3c")

type MacTestCase struct {
	Key     string
	Message string
	BitLen  int
	TagBits int
	Result  string
}

var rfcCases = []MacTestCase{
	{
		Key:     "2b7e1516 28aed2a6 abf71588 09cf4f3c",
		Message: "",
		BitLen:  bits.AllBits,
		TagBits: FullTag,
		Result:  "bb1d6929 e9593728 7fa37d12 9b756746",
	},
	{
		Key:     "2b7e1516 28aed2a6 abf71588 09cf4f3c",
		Message: "6bc1bee2 2e409f96 e93d7e11 7393172a",
		BitLen:  bits.AllBits,
		TagBits: FullTag,
		Result:  "070a16b4 6b4d4144 f79bdd9d d04a287c",
	},
	{
		Key: "2b7e1516 28aed2a6 abf71588 09cf4f3c",
		Message: "6bc1bee2 2e409f96 e93d7e11 7393172a" +
			"ae2d8a57 1e03ac9c 9eb76fac 45af8e51" +
			"30c81c46 a35ce411",
		BitLen:  320,
		TagBits: FullTag,
		Result:  "dfa66747 de9ae630 30ca3261 1497c827",
	},
	{
		Key: "2b7e1516 28aed2a6 abf71588 09cf4f3c",
		Message: "6bc1bee2 2e409f96 e93d7e11 7393172a" +
			"ae2d8a57 1e03ac9c 9eb76fac 45af8e51" +
			"30c81c46 a35ce411 e5fbc119 1a0a52ef" +
			"f69f2445 df4f9b17 ad2b417b e66c3710",
		BitLen:  bits.AllBits,
		TagBits: FullTag,
		Result:  "51f0bebf 7e3b9d92 fc497417 79363cfe",
	},
	{
		// 128-EIA2 test set 1 from TS 33.401 annex C, framed as COUNT || BEARER | DIR || data.
		Key:     "2bd6459f 82c5b300 952c4910 4881ff48",
		Message: "38a6f056 c0000000 33323462 63393861",
		BitLen:  122,
		TagBits: 32,
		Result:  "118c6eb8",
	},
}

func TestSubkeys(t *testing.T) {
	c, err := NewAES(rfcKey, FullTag)
	require.NoError(t, err)

	k1, k2 := c.Subkeys()
	if !bytes.Equal(k1, mustDecodeString("fbeed618 35713366 7c85e08f 7236a8de")) {
		t.Errorf("Wrong K1: %s", hex.EncodeToString(k1))
	}
	if !bytes.Equal(k2, mustDecodeString("f7ddac30 6ae266cc f90bc11e e46d513b")) {
		t.Errorf("Wrong K2: %s", hex.EncodeToString(k2))
	}
}

func TestMACs(t *testing.T) {
	for idx, tc := range rfcCases {
		result, err := Compute(newAES, mustDecodeString(tc.Key), mustDecodeString(tc.Message), tc.BitLen, tc.TagBits)
		if err != nil {
			t.Errorf("MAC case %d: %v", idx, err)
			continue
		}
		if !bytes.Equal(result, mustDecodeString(tc.Result)) {
			t.Errorf("Bad MAC case %d: %s", idx, hex.EncodeToString(result))
		}
	}
}

// Byte-aligned messages must agree with aead/cmac for every length around
// the block boundaries.
func TestAgainstStreamingCMAC(t *testing.T) {
	block, err := aes.NewCipher(rfcKey)
	require.NoError(t, err)
	c, err := New(block, FullTag)
	require.NoError(t, err)

	msg := make([]byte, 80)
	for i := range msg {
		msg[i] = byte(i * 7)
	}
	for n := 0; n <= len(msg); n++ {
		want, err := aeadcmac.Sum(msg[:n], block, BlockSize)
		require.NoError(t, err)
		got, err := c.Sum(msg[:n], bits.AllBits)
		require.NoError(t, err)
		if !bytes.Equal(got, want) {
			t.Errorf("length %d: got %x want %x", n, got, want)
		}

		h, err := NewHash(block, BlockSize)
		require.NoError(t, err)
		h.Write(msg[:n])
		assert.Equal(t, want, h.Sum(nil))
	}
}

// Bits past bitLen must not influence the tag.
func TestTrailingBitsIgnored(t *testing.T) {
	c, err := NewAES(rfcKey, FullTag)
	require.NoError(t, err)

	a, err := c.Sum(mustDecodeString("abcdef00"), 27)
	require.NoError(t, err)
	b, err := c.Sum(mustDecodeString("abcdef1f"), 27)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	d, err := c.Sum(mustDecodeString("abcdef20"), 27)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestSumWithHeader(t *testing.T) {
	c, err := NewAES(rfcKey, 32)
	require.NoError(t, err)

	header := mustDecodeString("38a6f056 c0000000")
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(0xa5 ^ i*13)
	}
	for _, n := range []int{0, 1, 5, 58, 64, 120, 127, 128, 200, 320} {
		framed := append(append([]byte(nil), header...), data...)
		want, err := c.Sum(framed, 8*len(header)+n)
		require.NoError(t, err)
		got, err := c.SumWithHeader(header, data, n)
		require.NoError(t, err)
		if !bytes.Equal(got, want) {
			t.Errorf("bit length %d: got %x want %x", n, got, want)
		}
	}

	// the input ceiling covers data only
	big := make([]byte, bits.MaxBytes+1)
	_, err = c.SumWithHeader(header, big[:bits.MaxBytes], bits.AllBits)
	assert.NoError(t, err)
	_, err = c.SumWithHeader(header, big, bits.AllBits)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	_, err = c.SumWithHeader(header, data, 8*len(data)+1)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestTagLength(t *testing.T) {
	full, err := NewAES(rfcKey, FullTag)
	require.NoError(t, err)
	msg := mustDecodeString("6bc1bee2 2e409f96 e93d7e11 7393172a")
	ref, err := full.Sum(msg, bits.AllBits)
	require.NoError(t, err)

	for _, tagBits := range []int{1, 7, 8, 32, 63, 64, 100, 127, 128} {
		c, err := NewAES(rfcKey, tagBits)
		require.NoError(t, err)
		mac, err := c.Sum(msg, bits.AllBits)
		require.NoError(t, err)
		if len(mac) != bits.ByteLen(tagBits) {
			t.Errorf("tag %d: length %d", tagBits, len(mac))
		}
		want, _ := bits.Truncate(ref, tagBits)
		if !bytes.Equal(mac, want) {
			t.Errorf("tag %d: got %x want %x", tagBits, mac, want)
		}
	}
}

func TestVerify(t *testing.T) {
	c, err := NewAES(rfcKey, FullTag)
	require.NoError(t, err)

	ok, err := c.Verify(nil, 0, mustDecodeString("bb1d6929 e9593728 7fa37d12 9b756746"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Verify(nil, 0, mustDecodeString("bb1d6929 e9593728 7fa37d12 9b756747"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCBCMAC(t *testing.T) {
	block, err := aes.NewCipher(rfcKey)
	require.NoError(t, err)

	one := mustDecodeString("6bc1bee2 2e409f96 e93d7e11 7393172a")
	mac, err := CBCMAC(block, one)
	require.NoError(t, err)

	want := make([]byte, 16)
	block.Encrypt(want, one)
	assert.Equal(t, want, mac)

	_, err = CBCMAC(block, one[:15])
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
}

func TestDouble(t *testing.T) {
	var x [BlockSize]byte
	x[BlockSize-1] = 1
	if d := Double(x); d[BlockSize-1] != 2 {
		t.Errorf("Bad doubling: %x", d)
	}
	x = [BlockSize]byte{0x80}
	if d := Double(x); d != ([BlockSize]byte{15: 0x87}) {
		t.Errorf("Bad reduction: %x", d)
	}
}

func TestErrors(t *testing.T) {
	_, err := Compute(newAES, rfcKey, nil, 0, 0)
	if !errors.Is(err, fault.ErrInvalidArgument) {
		t.Errorf("Tlen 0 accepted: %v", err)
	}
	_, err = NewAES(rfcKey, FullTag+1)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)
	_, err = NewAES(rfcKey[:15], FullTag)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)

	c, err := NewAES(rfcKey, FullTag)
	require.NoError(t, err)
	_, err = c.Sum([]byte{1, 2}, 17)
	assert.ErrorIs(t, err, fault.ErrInvalidArgument)

	_, err = Compute(func([]byte) (cipher.Block, error) { return nil, errors.New("no cipher") }, rfcKey, nil, 0, 32)
	assert.ErrorIs(t, err, fault.ErrPrimitiveFault)
}
