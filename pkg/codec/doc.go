// Package codec provides serialization and deserialization of record stores
// to a line-oriented text file.
//
// # File Format
//
// A file holds one schema block followed by one block per record:
//
//	#Scheme
//	"Capital"
//	"Country"
//	#Country1
//	"London"
//	"Great Britain"
//
// The first line is the literal schema marker. Each following quoted line up
// to the next line starting with '#' declares a field name. Every other line
// starting with '#' opens a record; its identifier is the rest of the line.
// The quoted lines after it are the record's values, in the same order as the
// declared field names. An empty store is written as an empty file.
//
// There is no escaping. A value containing '"' or a line break cannot be
// represented; by default it is written as-is and corrupts the file or fails
// on reload. An identifier may not hold a line break either, and one ending
// in '\r' is written as-is but reloads without it, since decoding drops a
// trailing '\r' from every line. Options.Strict rejects such values and
// identifiers at encode time instead.
//
// # Decoding
//
// Decoding is a three-state machine (FindScheme, ReadFields, ReadObject)
// evaluated once per line:
//
//   - FindScheme skips every line until the schema marker.
//   - ReadFields appends each quoted line to the schema and moves to
//     ReadObject on the first '#' line.
//   - ReadObject assigns quoted lines to schema fields by position. A '#'
//     line, or the end of input, finalizes the pending record, which must
//     hold exactly as many values as the schema has fields.
//
// Empty lines are skipped in every state and a trailing '\r' is dropped from
// each line. A value is the text between the first character of the line
// and the next '"'; a missing closing '"' is an error.
//
// # Error Handling
//
// Every format violation is reported as a *ParseError carrying the line
// number, which unwraps to ErrMalformedFile:
//
//	err := c.Decode(r, insert)
//	if errors.Is(err, codec.ErrMalformedFile) {
//	    // reject the file
//	}
//
// Errors returned by the InsertFunc are passed through with the line number
// prepended, so callers can match their own sentinels with errors.Is.
//
// # Thread Safety
//
// RecordCodec holds only its options and is safe for concurrent use.
package codec
