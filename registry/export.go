package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rdp-studio/dn42-geoasn/log"
	E "github.com/sagernet/sing/common/exceptions"
)

type ExportOptions struct {
	Logger log.ContextLogger
	// Diagnostic receives one "<prefix> <origin> no name, skipping" line per dropped record.
	Diagnostic io.Writer
	// LF ends rows with "\n" instead of the "\r\n" of RFC 4180.
	LF bool
}

type ExportResult struct {
	Exported int
	Skipped  int
}

// Exporter writes records as a headerless prefix,asn,name table.
type Exporter struct {
	logger     log.ContextLogger
	diagnostic io.Writer
	lf         bool
}

func NewExporter(options ExportOptions) *Exporter {
	exporter := &Exporter{
		logger:     options.Logger,
		diagnostic: options.Diagnostic,
		lf:         options.LF,
	}
	if exporter.logger == nil {
		exporter.logger = log.NewNOPFactory().Logger()
	}
	if exporter.diagnostic == nil {
		exporter.diagnostic = io.Discard
	}
	return exporter
}

// Export writes the records in order. Records without an AS name are reported
// on the diagnostic writer and left out of the table.
func (e *Exporter) Export(ctx context.Context, writer io.Writer, records []Record) (ExportResult, error) {
	var result ExportResult
	tableWriter := csv.NewWriter(writer)
	tableWriter.UseCRLF = !e.lf
	for _, record := range records {
		if !record.HasName {
			fmt.Fprintf(e.diagnostic, "%s %s no name, skipping\n", record.Prefix, record.Origin)
			log.WithRecordEvent(e.logger, ctx, log.LevelDebug,
				log.NewRecordEvent("skipped", record.Prefix, record.Origin).
					WithClass(record.Class).
					WithReason(record.NameError),
				"skip ", record.Prefix, ": ", record.NameError)
			result.Skipped++
			continue
		}
		err := tableWriter.Write([]string{record.Prefix, BareASN(record.Origin), record.ASName})
		if err != nil {
			return result, E.Cause(err, "write row")
		}
		result.Exported++
	}
	tableWriter.Flush()
	if err := tableWriter.Error(); err != nil {
		return result, E.Cause(err, "write table")
	}
	return result, nil
}

// ExportFile creates (or truncates) path and exports the records into it.
func (e *Exporter) ExportFile(ctx context.Context, path string, records []Record) (ExportResult, error) {
	file, err := os.Create(path)
	if err != nil {
		return ExportResult{}, E.Cause(err, "create table")
	}
	result, err := e.Export(ctx, file, records)
	if err != nil {
		file.Close()
		return result, err
	}
	if err = file.Close(); err != nil {
		return result, E.Cause(err, "close table")
	}
	e.logger.InfoContext(ctx, "exported ", result.Exported, " rows to ", path, ", skipped ", result.Skipped)
	return result, nil
}
