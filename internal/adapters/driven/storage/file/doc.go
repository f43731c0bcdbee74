// Package file provides JSON-file-backed stores for credentials and
// sync state. Writes go through a temp file and rename so a crash
// mid-write never leaves a truncated file behind.
package file
