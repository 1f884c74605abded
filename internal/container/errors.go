package container

import "errors"

// Sentinel errors returned while walking a PSD file's fixed section
// layout or its file header. Wrap these with fmt.Errorf("psd: ...: %w", ...)
// at the call site so callers can still match with errors.Is.
var (
	ErrNotEnoughBytes   = errors.New("psd: not enough bytes")
	ErrInvalidSignature = errors.New("psd: invalid signature")
	ErrInvalidVersion   = errors.New("psd: invalid version")
	ErrInvalidReserved  = errors.New("psd: invalid reserved bytes")

	ErrChannelCountOutOfRange = errors.New("psd: channel count out of range")
	ErrWidthOutOfRange        = errors.New("psd: width out of range")
	ErrHeightOutOfRange       = errors.New("psd: height out of range")
	ErrInvalidDepth           = errors.New("psd: invalid depth")
	ErrInvalidColorMode       = errors.New("psd: invalid color mode")
)
