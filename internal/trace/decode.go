package trace

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"go.uber.org/zap"
)

const (
	// fieldSize is the width of the function-name and debug-text fields.
	fieldSize = 128
	// sampleHeaderSize is function_id + timestamp + sample_type + exit_point.
	sampleHeaderSize = 4 + 8 + 4 + 4
	// maxPrealloc caps slice capacity taken from untrusted counts.
	maxPrealloc = 1 << 16
)

// Trace is the decoded content of a trace file.
type Trace struct {
	Functions   FunctionTable
	Events      []Event
	Diagnostics []Diagnostic
}

// Decode reads a complete trace from r. A short read anywhere fails the
// whole load with a *FormatError wrapping ErrTruncated; samples that
// reference unknown functions are skipped and reported as diagnostics.
func Decode(r io.Reader, opts ...Option) (*Trace, error) {
	o := buildOptions(opts)
	d := &decoder{r: bufio.NewReader(r), log: o.logger}
	return d.decode()
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(b []byte, opts ...Option) (*Trace, error) {
	return Decode(bytes.NewReader(b), opts...)
}

type decoder struct {
	r   *bufio.Reader
	off int64
	buf [fieldSize]byte
	log *zap.Logger
}

func (d *decoder) decode() (*Trace, error) {
	t := &Trace{}

	numFuncs, err := d.count("functions")
	if err != nil {
		return nil, err
	}

	t.Functions = make(FunctionTable, 0, min(numFuncs, maxPrealloc))
	known := make(map[int32]struct{}, min(numFuncs, maxPrealloc))
	for k := 0; k < numFuncs; k++ {
		start := d.off
		id, err := d.readInt32()
		if err != nil {
			return nil, d.fail("functions", k, start, err)
		}
		name, err := d.readField()
		if err != nil {
			return nil, d.fail("functions", k, start, err)
		}
		if _, dup := known[id]; dup {
			t.Diagnostics = append(t.Diagnostics, d.diagnose(Diagnostic{
				Kind: DuplicateFunction, Index: k, FunctionID: id,
			}))
			continue
		}
		known[id] = struct{}{}
		t.Functions = append(t.Functions, Function{ID: id, Name: name})
	}

	numSamples, err := d.count("samples")
	if err != nil {
		return nil, err
	}

	t.Events = make([]Event, 0, min(numSamples, maxPrealloc))
	for k := 0; k < numSamples; k++ {
		start := d.off
		ev, err := d.sample()
		if err != nil {
			return nil, d.fail("samples", k, start, err)
		}
		if _, ok := known[ev.FunctionID]; !ok {
			t.Diagnostics = append(t.Diagnostics, d.diagnose(Diagnostic{
				Kind: InvalidFunctionReference, Index: k,
				FunctionID: ev.FunctionID, Timestamp: ev.Timestamp,
			}))
			continue
		}
		t.Events = append(t.Events, ev)
	}

	return t, nil
}

// sample reads one sample record, including the text field of debug
// output records so the stream stays aligned even for skipped samples.
func (d *decoder) sample() (Event, error) {
	if _, err := d.read(sampleHeaderSize); err != nil {
		return Event{}, err
	}
	h := d.buf[:sampleHeaderSize]
	ev := Event{
		FunctionID: int32(binary.LittleEndian.Uint32(h[0:4])),
		Timestamp:  int64(binary.LittleEndian.Uint64(h[4:12])),
		Type:       SampleType(int32(binary.LittleEndian.Uint32(h[12:16]))),
		ExitPoint:  int32(binary.LittleEndian.Uint32(h[16:20])),
	}
	if ev.Type == TypeDebugOut {
		text, err := d.readField()
		if err != nil {
			return Event{}, err
		}
		ev.Text = text
	}
	return ev, nil
}

func (d *decoder) count(section string) (int, error) {
	start := d.off
	n, err := d.readInt32()
	if err != nil {
		return 0, d.fail(section, -1, start, err)
	}
	if n < 0 {
		return 0, &FormatError{Section: section, Record: -1, Offset: start, Err: ErrNegativeCount}
	}
	return int(n), nil
}

func (d *decoder) readInt32() (int32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (d *decoder) readField() (string, error) {
	b, err := d.read(fieldSize)
	if err != nil {
		return "", err
	}
	return trimField(b), nil
}

func (d *decoder) read(n int) ([]byte, error) {
	got, err := io.ReadFull(d.r, d.buf[:n])
	d.off += int64(got)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, ErrTruncated
	}
	if err != nil {
		return nil, err
	}
	return d.buf[:n], nil
}

func (d *decoder) fail(section string, record int, offset int64, err error) error {
	return &FormatError{Section: section, Record: record, Offset: offset, Err: err}
}

func (d *decoder) diagnose(diag Diagnostic) Diagnostic {
	d.log.Warn(diag.Kind.String(),
		zap.Int("record", diag.Index),
		zap.Int32("function_id", diag.FunctionID),
		zap.Int64("timestamp_us", diag.Timestamp),
	)
	return diag
}
