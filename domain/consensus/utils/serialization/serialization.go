package serialization

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// All consensus objects serialize little-endian. The functions in this
// package back both digest preimages and database persistence, so any
// change here is a consensus change.

// WriteElement writes a fixed-size element to w in little-endian order.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], e)
		_, err := w.Write(buf[:])
		return errors.WithStack(err)
	case int64:
		return WriteElement(w, uint64(e))
	case uint32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], e)
		_, err := w.Write(buf[:])
		return errors.WithStack(err)
	case uint16:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], e)
		_, err := w.Write(buf[:])
		return errors.WithStack(err)
	case uint8:
		_, err := w.Write([]byte{e})
		return errors.WithStack(err)
	case bool:
		var b byte
		if e {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return errors.WithStack(err)
	case [32]byte:
		_, err := w.Write(e[:])
		return errors.WithStack(err)
	default:
		return errors.Errorf("unsupported element type %T", element)
	}
}

// WriteElements writes multiple elements in order.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := WriteElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

// WriteVarBytes writes a length-prefixed byte slice.
func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteElement(w, uint64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return errors.WithStack(err)
}

// ReadElement reads a fixed-size element written by WriteElement.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errors.WithStack(err)
		}
		*e = binary.LittleEndian.Uint64(buf[:])
		return nil
	case *int64:
		var u uint64
		if err := ReadElement(r, &u); err != nil {
			return err
		}
		*e = int64(u)
		return nil
	case *uint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errors.WithStack(err)
		}
		*e = binary.LittleEndian.Uint32(buf[:])
		return nil
	case *uint16:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errors.WithStack(err)
		}
		*e = binary.LittleEndian.Uint16(buf[:])
		return nil
	case *uint8:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errors.WithStack(err)
		}
		*e = buf[0]
		return nil
	case *bool:
		var buf [1]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return errors.WithStack(err)
		}
		*e = buf[0] != 0
		return nil
	case *[32]byte:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)
	default:
		return errors.Errorf("unsupported element type %T", element)
	}
}

// ReadVarBytes reads a length-prefixed byte slice written by WriteVarBytes.
// maxLength bounds the allocation so a corrupt length prefix cannot OOM the
// process.
func ReadVarBytes(r io.Reader, maxLength uint64) ([]byte, error) {
	var length uint64
	if err := ReadElement(r, &length); err != nil {
		return nil, err
	}
	if length > maxLength {
		return nil, errors.Errorf("variable length payload of %d bytes exceeds maximum of %d",
			length, maxLength)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
