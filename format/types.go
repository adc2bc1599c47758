// Package format defines the small enumerations shared across the MUD
// engine: the compression codec selector used by the compress envelope
// (§4.I) and the byte order a file was written with.
package format

type (
	// CompressionType selects the codec wrapping a compressed Section
	// payload (§4.I). The zero value is not a valid compression type;
	// use CompressionNone to mean "no compression".
	CompressionType uint8

	// ByteOrder records which byte order a MUD file or buffer uses.
	ByteOrder uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (b ByteOrder) String() string {
	switch b {
	case LittleEndian:
		return "LittleEndian"
	case BigEndian:
		return "BigEndian"
	default:
		return "Unknown"
	}
}
