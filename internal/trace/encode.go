package trace

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes functions and events in the trace file format. Names and
// debug texts longer than 128 bytes are cut; shorter ones are NUL padded.
func Encode(w io.Writer, functions FunctionTable, events []Event) error {
	bw := bufio.NewWriter(w)

	var hdr [sampleHeaderSize]byte
	var field [fieldSize]byte

	putField := func(s string) error {
		clear(field[:])
		copy(field[:], s)
		_, err := bw.Write(field[:])
		return err
	}

	binary.LittleEndian.PutUint32(hdr[:4], uint32(len(functions)))
	if _, err := bw.Write(hdr[:4]); err != nil {
		return fmt.Errorf("writing function count: %w", err)
	}
	for _, f := range functions {
		binary.LittleEndian.PutUint32(hdr[:4], uint32(f.ID))
		if _, err := bw.Write(hdr[:4]); err != nil {
			return fmt.Errorf("writing function %d: %w", f.ID, err)
		}
		if err := putField(f.Name); err != nil {
			return fmt.Errorf("writing function %d name: %w", f.ID, err)
		}
	}

	binary.LittleEndian.PutUint32(hdr[:4], uint32(len(events)))
	if _, err := bw.Write(hdr[:4]); err != nil {
		return fmt.Errorf("writing sample count: %w", err)
	}
	for k, ev := range events {
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(ev.FunctionID))
		binary.LittleEndian.PutUint64(hdr[4:12], uint64(ev.Timestamp))
		binary.LittleEndian.PutUint32(hdr[12:16], uint32(ev.Type))
		binary.LittleEndian.PutUint32(hdr[16:20], uint32(ev.ExitPoint))
		if _, err := bw.Write(hdr[:]); err != nil {
			return fmt.Errorf("writing sample %d: %w", k, err)
		}
		if ev.Type == TypeDebugOut {
			if err := putField(ev.Text); err != nil {
				return fmt.Errorf("writing sample %d text: %w", k, err)
			}
		}
	}

	return bw.Flush()
}
