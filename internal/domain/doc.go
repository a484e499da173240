// Package domain models the Electricity Maps hourly carbon-intensity
// dataset and the normalization rules applied to it.
//
// # Data Source
//
// The dataset is a comma-delimited text export of per-zone hourly carbon
// intensity. The first line is the header; every data row has exactly as
// many fields as the header. Required columns (exact names):
//
//	Datetime (UTC)
//	Country
//	Zone Name
//	Carbon Intensity gCO₂eq/kWh (direct)
//	Carbon Intensity gCO₂eq/kWh (LCA)
//
// Optional columns: "Zone Id", "Low Carbon Percentage", "Renewable
// Percentage". Unknown columns are preserved in the schema but ignored.
//
// # Timestamp Conventions
//
// The native timestamp format is day/month/year 24-hour wall clock:
//
//	"20/02/2023 2:00"  →  2023-02-20T02:00:00Z
//
// Minutes are optional and default to 00; one-digit day, month, and hour
// values are accepted and zero-padded. The format carries no zone marker.
// It is interpreted as UTC by fixed convention (the export is produced in
// UTC), not inferred per row. Timestamps not in the native format fall
// back to ISO-8601 parsing. A row whose timestamp parses to no valid
// calendar date is dropped entirely.
//
// # Missing Values
//
// An intensity field that is empty or unparseable becomes NaN, the
// "unmeasured" sentinel. Such rows are kept: they still mark their day as
// having data and still resolve temporally. Percentage fields default to
// zero instead, matching how the upstream export encodes them. A missing
// zone name falls back to the country name.
package domain
