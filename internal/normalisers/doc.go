// Package normalisers contains converters from the vendor's document
// shapes to plain text:
//
//   - transcript: speaker segments to "[MM:SS] speaker: text" lines
//   - prosemirror: the rich-text notes tree to flat text
//
// Normalisers are pure functions over domain types; they never touch
// the network or disk.
package normalisers
