// Command validate performs offline integrity checks on a local
// carbon-intensity dataset export: header schema, per-row parse rate,
// availability-index consistency, and instant-bounds sanity. It is the
// preflight tool run against a fresh export before pointing the service
// at it.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/carbon-intensity.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
	"github.com/couchcryptid/carbon-intensity-service/internal/timeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataset := flag.String("dataset", "", "path to the dataset CSV export")
	maxSkipPct := flag.Float64("max-skip-pct", 5.0, "maximum tolerated percentage of rejected rows")
	flag.Parse()

	if *dataset == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataset, *maxSkipPct); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxSkipPct float64) int {
	fmt.Println("=== Carbon Intensity Dataset Validation ===")
	fmt.Println()

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open dataset: %v\n", err)
		return 1
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	all, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read dataset: %v\n", err)
		return 1
	}
	if len(all) < 2 {
		fmt.Fprintln(os.Stderr, "FATAL: dataset has no data rows")
		return 1
	}

	headerPhase, schema := validateHeader(all[0])

	var records []domain.IntensityRecord
	skipped := 0
	rowPhase := &phase{name: "Row normalization"}
	if headerPhase.passed() {
		records, skipped = normalizeAll(schema, all[1:], rowPhase, maxSkipPct)
	} else {
		rowPhase.errorf("skipped: header invalid")
	}

	indexPhase := validateIndex(records)

	phases := []*phase{headerPhase, rowPhase, indexPhase}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d total, %d normalized, %d rejected\n", len(all)-1, len(records), skipped)
	if len(records) > 0 {
		ix := timeline.BuildIndex(records)
		fmt.Printf("Days: %d distinct, %s .. %s\n",
			len(ix.Days),
			ix.Earliest.Format(time.RFC3339),
			ix.Latest.Format(time.RFC3339),
		)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateHeader(header []string) (*phase, domain.Schema) {
	p := &phase{name: "Header schema"}
	schema, err := domain.ParseHeader(header)
	if err != nil {
		p.errorf("%v", err)
		return p, domain.Schema{}
	}
	for _, extra := range schema.ExtraColumns() {
		fmt.Printf("  note: unknown column %q ignored\n", extra)
	}
	return p, schema
}

func normalizeAll(schema domain.Schema, rows [][]string, p *phase, maxSkipPct float64) ([]domain.IntensityRecord, int) {
	var records []domain.IntensityRecord
	skipped := 0
	nanIntensity := 0

	for i, row := range rows {
		rec, ok := schema.Normalize(row)
		if !ok {
			skipped++
			if skipped <= 10 {
				p.errorf("line %d: row rejected (column count or timestamp)", i+2)
			}
			continue
		}
		if math.IsNaN(rec.DirectIntensity) && math.IsNaN(rec.LCAIntensity) {
			nanIntensity++
		}
		records = append(records, rec)
	}

	total := len(rows)
	if total > 0 {
		pct := float64(skipped) / float64(total) * 100
		if pct > maxSkipPct {
			p.errorf("%.1f%% of rows rejected (threshold %.1f%%)", pct, maxSkipPct)
		} else {
			// Rejections under the threshold are informational only.
			p.errors = nil
		}
	}
	if nanIntensity > 0 {
		fmt.Printf("  note: %d rows carry no intensity value (kept, NaN)\n", nanIntensity)
	}
	return records, skipped
}

func validateIndex(records []domain.IntensityRecord) *phase {
	p := &phase{name: "Availability index"}
	if len(records) == 0 {
		p.errorf("no normalized records to index")
		return p
	}

	ix := timeline.BuildIndex(records)
	if ix.Empty() {
		p.errorf("index empty despite %d records", len(records))
		return p
	}
	for i := 1; i < len(ix.Days); i++ {
		if !ix.Days[i].After(ix.Days[i-1]) {
			p.errorf("days not strictly increasing at position %d", i)
		}
	}
	if ix.Earliest.After(ix.Latest) {
		p.errorf("earliest %s after latest %s", ix.Earliest, ix.Latest)
	}
	for _, rec := range records {
		if rec.Instant.Before(ix.Earliest) || rec.Instant.After(ix.Latest) {
			p.errorf("record at %s outside index bounds", rec.Instant)
			break
		}
	}
	return p
}
