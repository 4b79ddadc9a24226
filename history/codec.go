package history

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

// Persisted record layout (little endian):
//
//	int32  class (ClassFootnotes)
//	int32  kind
//	kind == KindAddFootnote:
//	  int32  length of id in bytes
//	  []byte id, UTF-16LE
//
// In a change stream every record is preceded by its uint32 length so
// malformed records could be skipped.

const (
	maxStringBytes = 1 << 16
	// class, kind, string length and the longest id
	maxRecordBytes = 12 + maxStringBytes
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Encode writes single change record.
func Encode(w io.Writer, c Change) error {
	if err := binary.Write(w, binary.LittleEndian, int32(c.Class())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(c.Kind())); err != nil {
		return err
	}
	switch v := c.(type) {
	case AddFootnote:
		return writeString(w, v.ID)
	default:
		// this should never happen - set of changes is closed
		panic(fmt.Sprintf("unsupported change type %T", c))
	}
}

// Decode reads single change record. Class tag is checked first, on mismatch
// nothing past the tag is consumed.
func Decode(r io.Reader) (Change, error) {
	var class, kind int32
	if err := binary.Read(r, binary.LittleEndian, &class); err != nil {
		return nil, fmt.Errorf("unable to read record class: %w", err)
	}
	if Class(class) != ClassFootnotes {
		return nil, fmt.Errorf("class %d: %w", class, ErrClassMismatch)
	}
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, fmt.Errorf("unable to read record kind: %w", err)
	}
	switch Kind(kind) {
	case KindAddFootnote:
		id, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("unable to read footnote id: %w", err)
		}
		return AddFootnote{ID: id}, nil
	default:
		return nil, fmt.Errorf("kind %d: %w", kind, ErrUnknownKind)
	}
}

// Marshal returns encoded change record.
func Marshal(c Change) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes single record which must occupy data completely.
func Unmarshal(data []byte) (Change, error) {
	br := bytes.NewReader(data)
	c, err := Decode(br)
	if err != nil {
		return nil, err
	}
	if br.Len() > 0 {
		return nil, fmt.Errorf("%d trailing bytes", br.Len())
	}
	return c, nil
}

// WriteRecord writes length framed change record.
func WriteRecord(w io.Writer, c Change) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteAll writes change stream.
func WriteAll(w io.Writer, changes []Change) error {
	for _, c := range changes {
		if err := WriteRecord(w, c); err != nil {
			return fmt.Errorf("unable to write %s: %w", c, err)
		}
	}
	return nil
}

// ReadAll loads change stream applying every decoded change to b (which may
// be nil). Malformed records are rejected one by one and loading continues,
// all rejections are returned combined. Only truncated stream or oversized
// frame stop loading.
func ReadAll(r io.Reader, b Binder, log *zap.Logger) ([]Change, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		changes []Change
		errs    error
	)
	for n := 0; ; n++ {
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			errs = multierr.Append(errs, fmt.Errorf("record %d: truncated frame header: %w", n, err))
			break
		}
		if size > maxRecordBytes {
			// stream is not trustworthy past this point, frame could not be skipped
			errs = multierr.Append(errs, fmt.Errorf("record %d: frame of %d bytes exceeds %d", n, size, maxRecordBytes))
			break
		}
		frame := make([]byte, size)
		if _, err := io.ReadFull(r, frame); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: truncated frame: %w", n, err))
			break
		}

		c, err := Unmarshal(frame)
		if err == nil && b != nil {
			err = c.Apply(b)
		}
		if err != nil {
			log.Warn("Change record rejected", zap.Int("record", n), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", n, err))
			continue
		}
		changes = append(changes, c)
	}
	return changes, errs
}

func writeString(w io.Writer, s string) error {
	data, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("unable to encode string: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(data))); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func readString(r io.Reader) (string, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return "", err
	}
	if size < 0 || size > maxStringBytes || size%2 != 0 {
		return "", fmt.Errorf("bad string length %d", size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("unable to decode string: %w", err)
	}
	return string(out), nil
}
