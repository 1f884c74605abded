package layer

import "errors"

var (
	// ErrInvalidChannel is returned for a channel id outside -3..2.
	ErrInvalidChannel = errors.New("psd: invalid layer channel id")
	// ErrInvalidCompression is returned for an unrecognized channel
	// compression tag.
	ErrInvalidCompression = errors.New("psd: invalid layer channel compression")
	// ErrUnknownBlendMode is returned for a layer record whose 4-byte
	// blend-mode key doesn't match any of the known modes.
	ErrUnknownBlendMode = errors.New("psd: unknown layer blend mode")
	// ErrMissingChannel is returned when assembling RGBA for a layer that
	// has no red channel, the one channel every layer must carry.
	ErrMissingChannel = errors.New("psd: layer is missing its red channel")
	// ErrZipUnsupported is returned for a channel compressed with either
	// ZIP variant, which this package does not decode.
	ErrZipUnsupported = errors.New("psd: zip-compressed channel data is not supported")
)
