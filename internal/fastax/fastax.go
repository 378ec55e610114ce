// Package fastax is a minimal FASTA reader/writer for the pipeline's
// intermediate files: record id up to the first whitespace, sequence lines
// concatenated, gzip-transparent open, '-' for stdin.
package fastax

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// Record is a parsed FASTA sequence.
type Record struct {
	ID  string
	Seq []byte
}

// Open returns a reader for path; ".gz" is decompressed, "-" is stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &gzReadCloser{gz: gz, fh: fh}, nil
	}
	return fh, nil
}

type gzReadCloser struct {
	gz *gzip.Reader
	fh *os.File
}

func (g *gzReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzReadCloser) Close() error {
	_ = g.gz.Close()
	return g.fh.Close()
}

// ReadAll parses every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var (
		out []Record
		id  string
		seq []byte
		in  bool
	)
	flush := func() {
		if in {
			out = append(out, Record{ID: id, Seq: append([]byte(nil), seq...)})
		}
	}
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			hdr := string(line[1:])
			if sp := strings.IndexAny(hdr, " \t"); sp >= 0 {
				hdr = hdr[:sp]
			}
			id = hdr
			seq = seq[:0]
			in = true
			continue
		}
		seq = append(seq, line...)
	}
	flush()
	return out, sc.Err()
}

// ReadFile opens and parses path.
func ReadFile(path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadAll(rc)
}

// Write renders records with 60-column sequence wrapping.
func Write(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := bw.WriteString(">" + rec.ID + "\n"); err != nil {
			return err
		}
		for off := 0; off < len(rec.Seq); off += 60 {
			end := off + 60
			if end > len(rec.Seq) {
				end = len(rec.Seq)
			}
			if _, err := bw.Write(rec.Seq[off:end]); err != nil {
				return err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
