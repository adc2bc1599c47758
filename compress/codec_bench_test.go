package compress

import (
	"fmt"
	"testing"
)

// generateBenchmarkData creates test data for benchmarks.
func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "highly_compressible":
		// all zeros - maximum compression
	case "compressible":
		pattern := []byte("Section payload with run number 1234567890 and value 3.14159")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "semi_compressible":
		for i := range data {
			if i%100 < 50 {
				data[i] = byte(i % 256)
			} else {
				data[i] = byte((i*7 + i*i) % 256)
			}
		}
	default:
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

// BenchmarkAllCodecs_Compress benchmarks compression for all codecs with various data patterns.
func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					testName := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(testName, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							if _, err := codec.Compress(data); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_Decompress benchmarks decompression for all codecs.
func BenchmarkAllCodecs_Decompress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					testName := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(testName, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							if _, err := codec.Decompress(compressed); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_RoundTrip benchmarks a full compress/decompress cycle.
func BenchmarkAllCodecs_RoundTrip(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144, 1048576}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					testName := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(testName, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							compressed, err := codec.Compress(data)
							if err != nil {
								b.Fatal(err)
							}
							if _, err := codec.Decompress(compressed); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_CompressionRatio reports compression ratios alongside
// throughput for each codec on a 1MB payload.
func BenchmarkAllCodecs_CompressionRatio(b *testing.B) {
	size := 1048576

	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, comp := range compressibilities {
				b.Run(comp, func(b *testing.B) {
					data := generateBenchmarkData(size, comp)

					compressed, err := codec.Compress(data)
					if err != nil {
						b.Fatal(err)
					}

					ratio := float64(len(compressed)) / float64(len(data)) * 100
					b.ReportMetric(ratio, "ratio%")
					b.ReportMetric(float64(len(compressed)), "compressed_bytes")

					b.ResetTimer()
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						if _, err := codec.Compress(data); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

// BenchmarkAllCodecs_SmallPayloads benchmarks small payloads typical of
// histogram and run-metadata Sections.
func BenchmarkAllCodecs_SmallPayloads(b *testing.B) {
	sizes := []int{64, 128, 256, 512, 1024}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				testName := fmt.Sprintf("%d_bytes", size)
				b.Run(testName, func(b *testing.B) {
					data := generateBenchmarkData(size, "compressible")

					b.ResetTimer()
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}
						if _, err := codec.Decompress(compressed); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

// BenchmarkAllCodecs_Parallel benchmarks concurrent compression and
// decompression, since GetCodec hands the same Codec value to every caller,
// whatever goroutine it runs on.
func BenchmarkAllCodecs_Parallel(b *testing.B) {
	size := 65536
	data := generateBenchmarkData(size, "compressible")

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName+"_Compress", func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := codec.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run(codecName+"_Decompress", func(b *testing.B) {
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := codec.Decompress(compressed); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}

// BenchmarkZstdDecompress_Sequential simulates the pool-reuse pattern a
// histogram-heavy read sees in practice: one Section's payload decompressed
// many times in a row while the pooled decoder stays warm.
func BenchmarkZstdDecompress_Sequential(b *testing.B) {
	const payloadSize = 12 * 1024
	data := generateBenchmarkData(payloadSize, "compressible")
	compressor := NewZstdCompressor()
	compressed, err := compressor.Compress(data)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("150histograms", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(int64(len(compressed)))
		b.ResetTimer()

		for b.Loop() {
			for range 150 {
				if _, err := compressor.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		}
	})
}
