package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
	"github.com/couchcryptid/carbon-intensity-service/internal/timeline"
)

// chunkParser consumes the dataset body a bounded number of rows at a
// time. The suspension point between chunks is first-class: each Step
// call processes at most chunkSize rows and returns, so the caller
// decides when to resume and a large body is never parsed in one
// synchronous pass. Index inputs accumulate alongside the records,
// avoiding a second scan of the data.
type chunkParser struct {
	reader    *csv.Reader
	schema    domain.Schema
	chunkSize int

	records []domain.IntensityRecord
	index   *timeline.IndexBuilder
	skipped int
	done    bool
}

// newChunkParser validates the header row and prepares a parser over the
// remaining rows. A missing or schema-invalid header fails here, before
// any data row is touched.
func newChunkParser(body []byte, chunkSize int) (*chunkParser, error) {
	r := csv.NewReader(bytes.NewReader(body))
	// Column-count mismatches are a per-row policy decision (drop the
	// row), not a reader-level error.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header row: %v", ErrSchemaInvalid, err)
	}
	schema, err := domain.ParseHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	return &chunkParser{
		reader:    r,
		schema:    schema,
		chunkSize: chunkSize,
		index:     timeline.NewIndexBuilder(),
	}, nil
}

// Step parses up to chunkSize rows. It returns done=true once the body is
// exhausted; malformed rows are counted and skipped, never fatal.
func (p *chunkParser) Step(ctx context.Context) (bool, error) {
	if p.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for n := 0; n < p.chunkSize; n++ {
		fields, err := p.reader.Read()
		if err == io.EOF {
			p.done = true
			return true, nil
		}
		if err != nil {
			// A structurally broken line (stray quote, bad encoding) is
			// just another unusable row.
			p.skipped++
			continue
		}

		rec, ok := p.schema.Normalize(fields)
		if !ok {
			p.skipped++
			continue
		}
		p.records = append(p.records, rec)
		p.index.Add(rec)
	}
	return false, nil
}
