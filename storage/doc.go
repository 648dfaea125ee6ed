// Package storage abstracts where uploads and meeting folders are written.
//
// # Backends
//
//   - storage/local: local filesystem, the only built-in backend
//
// The app keeps two roots: the upload directory, where raw uploads are
// saved by their original filename, and the output directory, which holds
// one folder per meeting. Both are local because ffmpeg reads and writes
// them directly through LocalStorage.LocalPath.
//
// # Configuration
//
//	storage:
//	  upload_dir: "uploads"
//	  output_dir: "summaries"
package storage
