package codec

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHeader struct {
	Version   uint32  `json:"version"`
	Iteration int     `json:"iteration"`
	LogZ      float64 `json:"log_z"`
}

func TestJSONRoundTrip(t *testing.T) {
	in := testHeader{Version: 1, Iteration: 4711, LogZ: -5.991}

	data, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out testHeader
	require.NoError(t, JSON{}.Unmarshal(data, &out))

	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	assert.NotEmpty(t, MustMarshal(nil, testHeader{Version: 1}))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}

func TestCompressionNames(t *testing.T) {
	tests := []struct {
		name string
		c    Compression
	}{
		{name: "none", c: CompressionNone},
		{name: "lz4", c: CompressionLZ4},
		{name: "zstd", c: CompressionZSTD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.c.String())

			got, ok := CompressionByName(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.c, got)
		})
	}

	assert.Equal(t, "Unknown(9)", Compression(9).String())

	_, ok := CompressionByName("snappy")
	assert.False(t, ok)
}

func TestCompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("live point section "), 512)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			block, err := Compress(payload, c)
			require.NoError(t, err)

			if c != CompressionNone {
				assert.Less(t, len(block), len(payload))
			}

			got, err := Decompress(block, c)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestCompressIncompressible(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 7))

	payload := make([]byte, 4096)
	for i := 0; i < len(payload); i += 8 {
		binary.LittleEndian.PutUint64(payload[i:], rng.Uint64())
	}

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			block, err := Compress(payload, c)
			require.NoError(t, err)

			// Random bytes fall back to raw storage.
			assert.Equal(t, blockHeaderSize+len(payload), len(block))
			assert.Zero(t, binary.LittleEndian.Uint32(block[4:]))

			got, err := Decompress(block, c)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestCompressEmpty(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			block, err := Compress(nil, c)
			require.NoError(t, err)

			got, err := Decompress(block, c)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	t.Run("ShortHeader", func(t *testing.T) {
		_, err := Decompress([]byte{1, 2, 3}, CompressionZSTD)
		require.Error(t, err)
	})

	t.Run("TruncatedBlock", func(t *testing.T) {
		block, err := Compress(bytes.Repeat([]byte("abc"), 1024), CompressionZSTD)
		require.NoError(t, err)

		_, err = Decompress(block[:len(block)-4], CompressionZSTD)
		require.Error(t, err)
	})

	t.Run("UnsupportedCompression", func(t *testing.T) {
		block, err := Compress(bytes.Repeat([]byte("abc"), 1024), CompressionZSTD)
		require.NoError(t, err)

		_, err = Decompress(block, Compression(9))
		require.Error(t, err)
	})
}
