package lzjd

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	lzjderrors "github.com/tamirms/lzjd/errors"
)

// Digest line grammar:
//
//	lzjd:<hash_width>:<capacity>:<original_length>:<source_id>:<base64 payload>
//
// The payload is the sketch values in ascending order, each serialized
// little-endian at the digest's hash width (4 or 8 bytes per value).
// Fields are colon-separated, so a source id containing a colon is rejected
// at encode time rather than escaped.
const linePrefix = "lzjd"

const lineFields = 6

// Encode serializes a digest to its one-line textual form.
func Encode(d Digest) (string, error) {
	if strings.ContainsAny(d.sourceID, ":\n") {
		return "", fmt.Errorf("source id %q: %w", d.sourceID, lzjderrors.ErrSourceIDColon)
	}

	valueSize := d.width / 8
	payload := make([]byte, len(d.values)*valueSize)
	for i, v := range d.values {
		if valueSize == 4 {
			binary.LittleEndian.PutUint32(payload[i*4:], uint32(v))
		} else {
			binary.LittleEndian.PutUint64(payload[i*8:], v)
		}
	}

	return fmt.Sprintf("%s:%d:%d:%d:%s:%s",
		linePrefix, d.width, d.capacity, d.length, d.sourceID,
		base64.StdEncoding.EncodeToString(payload)), nil
}

// Decode parses one digest line. Round-trip law: Decode(Encode(d)) equals d
// for every legally constructed digest.
func Decode(line string) (Digest, error) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) != lineFields {
		return Digest{}, fmt.Errorf("want %d colon-separated fields, got %d: %w",
			lineFields, len(fields), lzjderrors.ErrMalformedDigest)
	}
	if fields[0] != linePrefix {
		return Digest{}, fmt.Errorf("unknown prefix %q: %w", fields[0], lzjderrors.ErrMalformedDigest)
	}

	width, err := strconv.Atoi(fields[1])
	if err != nil || (width != 32 && width != 64) {
		return Digest{}, fmt.Errorf("hash width %q: %w", fields[1], lzjderrors.ErrMalformedDigest)
	}
	capacity, err := strconv.Atoi(fields[2])
	if err != nil || capacity < 1 {
		return Digest{}, fmt.Errorf("capacity %q: %w", fields[2], lzjderrors.ErrMalformedDigest)
	}
	length, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return Digest{}, fmt.Errorf("original length %q: %w", fields[3], lzjderrors.ErrMalformedDigest)
	}
	sourceID := fields[4]

	payload, err := base64.StdEncoding.DecodeString(fields[5])
	if err != nil {
		return Digest{}, fmt.Errorf("sketch payload: %v: %w", err, lzjderrors.ErrMalformedDigest)
	}
	valueSize := width / 8
	if len(payload)%valueSize != 0 {
		return Digest{}, fmt.Errorf("sketch payload length %d is not a multiple of %d: %w",
			len(payload), valueSize, lzjderrors.ErrMalformedDigest)
	}
	count := len(payload) / valueSize
	if count > capacity {
		return Digest{}, fmt.Errorf("sketch holds %d values, capacity is %d: %w",
			count, capacity, lzjderrors.ErrMalformedDigest)
	}

	values := make([]uint64, count)
	for i := range values {
		if valueSize == 4 {
			values[i] = uint64(binary.LittleEndian.Uint32(payload[i*4:]))
		} else {
			values[i] = binary.LittleEndian.Uint64(payload[i*8:])
		}
		if i > 0 && values[i] <= values[i-1] {
			return Digest{}, fmt.Errorf("sketch values not strictly ascending at index %d: %w",
				i, lzjderrors.ErrMalformedDigest)
		}
	}

	return Digest{
		sourceID: sourceID,
		length:   length,
		capacity: capacity,
		width:    width,
		values:   values,
	}, nil
}

// LineError attributes a decode failure to a specific line of a digest file.
type LineError struct {
	Line int // 1-based line number
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// ReadDigests decodes every digest line from r. Blank lines are skipped.
// A malformed line is reported as a LineError without stopping the remaining
// lines; the returned digests are the ones that decoded cleanly, in file
// order. A read failure on r itself is reported as a LineError on the line
// where reading stopped.
func ReadDigests(r io.Reader) ([]Digest, []LineError) {
	var (
		digests []Digest
		errs    []LineError
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		d, err := Decode(line)
		if err != nil {
			errs = append(errs, LineError{Line: lineno, Err: err})
			continue
		}
		digests = append(digests, d)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, LineError{Line: lineno + 1, Err: err})
	}
	return digests, errs
}
