package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeASCII(t *testing.T) {
	cps, ok := decode("cat")
	require.True(t, ok)
	assert.Equal(t, []string{"c", "a", "t"}, cps)
}

func TestDecodeMultiByte(t *testing.T) {
	// "café" - é is U+00E9, 2 bytes in UTF-8 (0xC3 0xA9).
	cps, ok := decode("café")
	require.True(t, ok)
	require.Len(t, cps, 4)
	assert.Equal(t, "é", cps[3])
}

func TestDecodeStopsAtNUL(t *testing.T) {
	cps, ok := decode("ab\x00cd")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, cps)
}

func TestDecodeLoneContinuationByteInvalid(t *testing.T) {
	_, ok := decode("a\x80b")
	assert.False(t, ok)
}

func TestDecodeTruncatedSequenceInvalid(t *testing.T) {
	// 0xC3 announces a 2-byte sequence but nothing follows.
	_, ok := decode("a\xc3")
	assert.False(t, ok)
}

func TestDecodeFirst(t *testing.T) {
	cp, ok := decodeFirst("café")
	require.True(t, ok)
	assert.Equal(t, "c", cp)

	cp, ok = decodeFirst("é")
	require.True(t, ok)
	assert.Equal(t, "é", cp)

	_, ok = decodeFirst("")
	assert.False(t, ok)
}
