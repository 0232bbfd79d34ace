// Package files provides input-file discovery for the presviz pipeline.
//
// Discovery walks the configured raw-data root recursively and returns
// every file whose extension marks it as a candidate sensor log, together
// with the station identifier derived from its directory path. Files in
// the same directory always share a station; files in different
// directories never do, even when their filenames collide.
package files
