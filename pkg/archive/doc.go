// Package archive unpacks and packs mod packages.
//
// A Codec knows one container format. ZipCodec handles plain .zip mod
// packages in-process; DivineCodec drives the LSLib divine tool for .pak
// packages. The Registry picks a codec by file extension, and the Extractor
// turns an imported archive into a directory tree under the workspace,
// either one at a time or as a background batch that reports progress.
package archive
