// Package ingestion loads question/answer pairs into a corpus.
//
// Rows are read from an .xlsx spreadsheet or a .csv file, on local disk or
// in S3. The Pipeline then embeds each row's question and writes one record
// per row, including:
//   - Assigning ids to rows that have none
//   - Throttling embedding calls
//   - Collecting per-row failures into a Report
//
// Processing is performed concurrently using a worker pool. A failed row
// does not stop the others unless fail-fast is enabled.
package ingestion
