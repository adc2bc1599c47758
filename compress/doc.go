// Package compress provides the compression codecs used by MUD's
// compressed-Section envelope (SPEC_FULL.md §4.I).
//
// A SEC_COMPRESSED_ID Section wraps an already-serialized child Section's
// raw bytes (Core included) behind one of these codecs, trading decode-time
// CPU for disk and wire size. Compression is opt-in per Section: a producer
// asks for it by setting secid.CompressFlag on the child's InstanceID
// before writing; nothing in the engine requires it, and the codec choice
// carries no bit of its own on the wire.
//
// # Codecs
//
//   - None (format.CompressionNone): passes data through unchanged.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed; the
//     codec filedrv picks by default when a Section asks for compression.
//   - S2 (format.CompressionS2): Snappy-family, faster than Zstd at a
//     worse ratio.
//   - LZ4 (format.CompressionLZ4): fastest decompression, worst ratio.
//
// Compressor, Decompressor, and Codec are the interfaces every codec
// implements. GetCodec looks one up by format.CompressionType; the secs
// package's envelope type calls it on both encode and decode.
package compress
