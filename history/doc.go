// Package history keeps a bounded linear undo/redo history of preview
// snapshots.
//
// Each snapshot is the raw NRGBA pixel data of the preview buffer,
// compressed with zstd. A Manager holds at most Limit undo entries; the
// oldest is discarded when a new snapshot would exceed the bound. Taking a
// snapshot clears the redo stack.
//
// Undo and Redo decode into scratch memory first and only touch the
// destination image once decoding succeeded, so a failed restore leaves
// the image unchanged.
package history
