package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ssargent/recstore/pkg/record"
)

const (
	// SchemaMarker is the line that opens the schema block.
	SchemaMarker = "#Scheme"
	// RecordMarker prefixes every record identifier line.
	RecordMarker = '#'
	// Delimiter quotes field names and values.
	Delimiter = '"'

	// DefaultMaxLineBytes bounds a single line when decoding.
	DefaultMaxLineBytes = 1 << 20
)

var (
	// ErrMalformedFile is returned when the input does not follow the file format.
	ErrMalformedFile = errors.New("malformed file")
	// ErrUnencodable is returned in strict mode when a value or identifier
	// would not survive a round trip.
	ErrUnencodable = errors.New("value cannot be encoded")
)

// ParseError reports where decoding failed. It unwraps to ErrMalformedFile.
type ParseError struct {
	Line   int // 1-based line number
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed file: line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedFile
}

// Options tunes encoding and decoding
type Options struct {
	Strict       bool // reject values the format cannot represent
	MaxLineBytes int  // excludes the line terminator; 0 means DefaultMaxLineBytes
}

// Entry is one record and its identifier, in the order it is written
type Entry struct {
	ID     string
	Record *record.Record
}

// InsertFunc receives every record the decoder finalizes. Returning an error
// aborts decoding.
type InsertFunc func(id string, rec *record.Record) error

// RecordCodec reads and writes the line-oriented record file format
type RecordCodec struct {
	opts Options
}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec(opts Options) *RecordCodec {
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	return &RecordCodec{opts: opts}
}

// Encode writes the schema block followed by every entry. Values are written
// in schema order. Nothing is written when entries is empty.
func (c *RecordCodec) Encode(w io.Writer, schema []string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(SchemaMarker + "\n"); err != nil {
		return err
	}
	for _, field := range schema {
		if err := c.checkQuoted(field); err != nil {
			return fmt.Errorf("field name %q: %w", field, err)
		}
		if err := writeQuoted(bw, field); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := c.checkID(entry.ID); err != nil {
			return fmt.Errorf("record %q: %w", entry.ID, err)
		}
		if err := bw.WriteByte(RecordMarker); err != nil {
			return err
		}
		if _, err := bw.WriteString(entry.ID + "\n"); err != nil {
			return err
		}
		for _, field := range schema {
			value, err := entry.Record.Get(field)
			if err != nil {
				return fmt.Errorf("record %q: %w", entry.ID, err)
			}
			if err := c.checkQuoted(value); err != nil {
				return fmt.Errorf("record %q field %q: %w", entry.ID, field, err)
			}
			if err := writeQuoted(bw, value); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// Decode parses the record file format from r and hands every complete
// record to insert.
func (c *RecordCodec) Decode(r io.Reader, insert InsertFunc) error {
	scanner := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > c.opts.MaxLineBytes {
		initial = c.opts.MaxLineBytes
	}
	// Leave room for a "\r\n" terminator
	scanner.Buffer(make([]byte, 0, initial), c.opts.MaxLineBytes+2)

	d := &decoder{opts: c.opts, insert: insert, state: stateFindSchema}
	for scanner.Scan() {
		d.line++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(line) > c.opts.MaxLineBytes {
			return d.errorf("line exceeds %d bytes", c.opts.MaxLineBytes)
		}
		if err := d.step(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			d.line++
			return d.errorf("line exceeds %d bytes", c.opts.MaxLineBytes)
		}
		return fmt.Errorf("failed to read record file: %w", err)
	}

	return d.finish()
}

func (c *RecordCodec) checkQuoted(s string) error {
	if c.opts.Strict && strings.ContainsAny(s, "\"\r\n") {
		return ErrUnencodable
	}
	return nil
}

func (c *RecordCodec) checkID(id string) error {
	if c.opts.Strict && strings.ContainsAny(id, "\r\n") {
		return ErrUnencodable
	}
	return nil
}

func writeQuoted(w *bufio.Writer, s string) error {
	if err := w.WriteByte(Delimiter); err != nil {
		return err
	}
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	_, err := w.WriteString("\"\n")
	return err
}
