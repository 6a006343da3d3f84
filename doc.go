// Package tardelta computes and applies binary-safe deltas between tar
// archives.
//
// Diff compares an old and a new archive and writes a delta archive holding
// a JSON manifest of changed, added and removed paths followed by verbatim
// copies of the changed and added entries of the new archive. Apply merges
// a delta with the original old archive to reconstruct the new archive
// without ever needing the new archive itself.
//
// The delta archive is itself a tar archive. Its first entry is always the
// reserved manifest path ([ManifestName]); readers reject anything else.
// Entry fingerprints cover both payload bytes and header-significant
// metadata, so a permission or ownership change alone marks an entry as
// changed.
//
// Archive files may be plain tar or gzip-compressed tar; inputs are detected
// automatically and output framing is selected with [WithCompression].
package tardelta
