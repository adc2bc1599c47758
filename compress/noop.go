package compress

// NoOpCompressor backs format.CompressionNone: it passes a Section's bytes
// through unchanged, for payloads that are already compressed or not worth
// the CPU to shrink further.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged, sharing its backing array.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, sharing its backing array.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
