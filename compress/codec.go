package compress

import (
	"fmt"

	"github.com/mudformat/mud/format"
)

// Compressor compresses a Section's serialized Core+payload bytes before
// they are wrapped in a SEC_COMPRESSED_ID envelope (SPEC_FULL.md §4.I).
//
// Payload sizes vary widely: a histogram's packed bin stream can run from a
// few bytes to hundreds of kilobytes.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The input data is the raw bytes of the wrapped Section (Core and
	// payload), already serialized by its own Ops.Encode. The input is not
	// modified. NoOpCompressor returns the input slice itself; the other
	// codecs return a newly allocated slice.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor, restoring the wrapped Section's raw
// Core+payload bytes.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the data is corrupted or was compressed with a
	// different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
