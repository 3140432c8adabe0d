package codec

import (
	"fmt"
	"strings"

	"github.com/ssargent/recstore/pkg/record"
)

type state int

const (
	stateFindSchema state = iota
	stateReadFields
	stateReadObject
)

func (s state) String() string {
	switch s {
	case stateFindSchema:
		return "FindScheme"
	case stateReadFields:
		return "ReadFields"
	case stateReadObject:
		return "ReadObject"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// decoder holds the parser state between lines
type decoder struct {
	opts   Options
	insert InsertFunc

	state  state
	line   int
	schema []string

	pendingID string
	pending   *record.Record
	index     int // values read for the pending record
}

// step advances the state machine by one line
func (d *decoder) step(line string) error {
	switch d.state {
	case stateFindSchema:
		if line == SchemaMarker {
			d.state = stateReadFields
		}
		return nil

	case stateReadFields:
		if line == "" {
			return nil
		}
		if line[0] == RecordMarker {
			d.begin(line[1:])
			d.state = stateReadObject
			return nil
		}
		field, err := d.extract(line)
		if err != nil {
			return err
		}
		d.schema = append(d.schema, field)
		return nil

	case stateReadObject:
		if line == "" {
			return nil
		}
		if line[0] == RecordMarker {
			if err := d.flush(); err != nil {
				return err
			}
			d.begin(line[1:])
			return nil
		}
		if d.index == len(d.schema) {
			return d.errorf("record %q has more than %d values", d.pendingID, len(d.schema))
		}
		value, err := d.extract(line)
		if err != nil {
			return err
		}
		d.pending.Add(d.schema[d.index], value)
		d.index++
		return nil
	}

	return d.errorf("unexpected parser state %s", d.state)
}

// finish handles end of input
func (d *decoder) finish() error {
	if d.state != stateReadObject {
		return nil
	}
	return d.flush()
}

func (d *decoder) begin(id string) {
	d.pendingID = id
	d.pending = record.New()
	d.index = 0
}

// flush finalizes the pending record
func (d *decoder) flush() error {
	if d.index != len(d.schema) {
		return d.errorf("record %q has %d values, schema declares %d fields", d.pendingID, d.index, len(d.schema))
	}
	if err := d.insert(d.pendingID, d.pending); err != nil {
		return fmt.Errorf("line %d: %w", d.line, err)
	}
	return nil
}

// extract returns the text between the opening character and the next
// delimiter.
func (d *decoder) extract(line string) (string, error) {
	if d.opts.Strict && line[0] != Delimiter {
		return "", d.errorf("expected opening %q", Delimiter)
	}
	end := strings.IndexByte(line[1:], Delimiter)
	if end < 0 {
		return "", d.errorf("missing closing %q", Delimiter)
	}
	end++
	if d.opts.Strict && end != len(line)-1 {
		return "", d.errorf("unexpected text after closing %q", Delimiter)
	}
	return line[1:end], nil
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: d.line, Reason: fmt.Sprintf(format, args...)}
}
