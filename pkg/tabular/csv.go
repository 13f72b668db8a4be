package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"
)

type csvReader struct {
	r       *csv.Reader
	headers []string
	line    int
}

func newCSVReader(src io.Reader) (*csvReader, error) {
	br := stripUTF8BOM(bufio.NewReader(src))

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	h, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("missing header row")
		}
		return nil, malformed("read csv header: %v", err)
	}
	for i := range h {
		if !utf8.ValidString(h[i]) {
			return nil, malformed("invalid header encoding")
		}
	}
	line, _ := r.FieldPos(0)
	return &csvReader{r: r, headers: h, line: line}, nil
}

func (c *csvReader) Format() Format {
	return FormatCSV
}

func (c *csvReader) Headers() []string {
	return c.headers
}

func (c *csvReader) Next() (Row, error) {
	rec, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, malformed("read csv row: %v", err)
	}
	// blank lines are skipped by csv.Reader and quoted cells may span
	// lines, so the position comes from the reader itself
	c.line, _ = c.r.FieldPos(0)
	if err := checkEncoding(rec, c.line); err != nil {
		return nil, err
	}
	return buildRow(c.headers, rec), nil
}

func (c *csvReader) Line() int {
	return c.line
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
