package project

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/prograde/pkg/errors"
)

// maxLineSize bounds one JSONL line; grid lines carry every node.
const maxLineSize = 256 << 20

func gzipped(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// readJSONL reads a JSONL file, gunzipping it when path ends in .gz, and
// returns each non-empty line. A line that is not valid JSON fails the
// whole read.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ErrIO.Newf("opening %s: %v", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped(path) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.ErrIO.Newf("reading %s: %v", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var records []json.RawMessage
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, errors.ErrIO.Newf("%s:%d: malformed line", path, n)
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.ErrIO.Newf("scanning %s: %v", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path using the temp-file, fsync,
// rename pattern. The output is gzipped when path ends in .gz.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".prograde-*.tmp")
	if err != nil {
		return errors.ErrIO.Newf("creating temp file: %v", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return errors.ErrIO.Newf(format, err)
	}

	var sink io.Writer = tmp
	var gz *gzip.Writer
	if gzipped(path) {
		gz = gzip.NewWriter(tmp)
		sink = gz
	}
	w := bufio.NewWriter(sink)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %v", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %v", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fail("closing gzip stream: %v", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.ErrIO.Newf("closing temp file: %v", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.ErrIO.Newf("renaming temp file: %v", err)
	}
	return nil
}
