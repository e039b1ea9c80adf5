// Package storage writes downloaded images to the local output directory.
//
// Files are named {name}.{ext}. Writes go through a temporary file in the same
// directory and are renamed into place, so an interrupted download never leaves
// a truncated image at the destination. Existing files are overwritten without
// warning.
package storage
