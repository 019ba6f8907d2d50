// Package remap allocates replacement identifiers for the content a patch
// copies out of appearance archives, so the patch never declares an
// identifier that either source archive or the base game already uses.
//
// The table is always built completely before any content is rewritten.
package remap
