// Package psd decodes Adobe Photoshop (PSD) documents: the file header,
// image resources, the layer-and-mask tree, and the final flattened
// composite, plus a compositor able to re-flatten an arbitrary subset of
// the document's layers.
//
// This package registers itself with the standard library's image
// package so that image.Decode can transparently read PSD files.
//
// Basic usage for decoding:
//
//	doc, err := psd.Decode(reader)
//	rgba := doc.RGBA()
package psd
