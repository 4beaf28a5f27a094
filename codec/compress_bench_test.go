package codec

import (
	"encoding/binary"
	"math"
	"testing"
)

// sectionPayload mimics a checkpoint live-point section: packed float64
// coordinates with smooth structure, so compression has something to
// find.
func sectionPayload(n int) []byte {
	data := make([]byte, n*8)
	for i := 0; i < n; i++ {
		v := math.Sin(float64(i) / 37)
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return data
}

func benchmarkCompress(b *testing.B, c Compression, data []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := Compress(data, c)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkDecompress(b *testing.B, c Compression, block []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(block)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := Decompress(block, c)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func BenchmarkCompress_Section(b *testing.B) {
	data := sectionPayload(8192)

	b.Run("lz4", func(b *testing.B) { benchmarkCompress(b, CompressionLZ4, data) })
	b.Run("zstd", func(b *testing.B) { benchmarkCompress(b, CompressionZSTD, data) })
}

func BenchmarkDecompress_Section(b *testing.B) {
	data := sectionPayload(8192)

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		block, err := Compress(data, c)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(c.String(), func(b *testing.B) { benchmarkDecompress(b, c, block) })
	}
}
