package autotax

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mozilla/fxa-autotax/internal/constants"
	"github.com/stripe/stripe-go/v82"
)

// ReportHeader names the report columns. Column order is part of the report
// format consumed downstream.
var ReportHeader = []string{
	"userid",
	"email",
	"product_id",
	"product_name",
	"plan_id",
	"plan_nickname",
	"plan_interval_count",
	"plan_interval",
	"total_excluding_tax",
	"tax",
	"hst",
	"gst",
	"pst",
	"qst",
	"rst",
	"total",
	"current_period_end",
}

// ReportSink receives report rows.
type ReportSink interface {
	Write(row []string) error
	Flush() error
}

// BuildReport assembles the report row for a converted subscription.
func (c *StripeAutomaticTaxConverter) BuildReport(
	customer *stripe.Customer,
	sub Subscription,
	product *stripe.Product,
	plan Plan,
	preview *InvoicePreview,
) []string {
	special := c.helpers.GetSpecialTaxAmounts(preview.TaxAmounts)

	return []string{
		customer.Metadata[constants.UserIDMetadataKey],
		customer.Email,
		product.ID,
		product.Name,
		plan.ID,
		plan.Nickname,
		strconv.FormatInt(plan.IntervalCount, 10),
		plan.Interval,
		strconv.FormatInt(preview.TotalExcludingTax, 10),
		strconv.FormatInt(preview.Tax, 10),
		strconv.FormatInt(special.HST, 10),
		strconv.FormatInt(special.GST, 10),
		strconv.FormatInt(special.PST, 10),
		strconv.FormatInt(special.QST, 10),
		strconv.FormatInt(special.RST, 10),
		strconv.FormatInt(preview.Total, 10),
		strconv.FormatInt(sub.CurrentPeriodEnd, 10),
	}
}

// CSVReportWriter writes report rows as CSV.
type CSVReportWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVReportWriter writes rows to w, preceded by the header when writeHeader is set.
func NewCSVReportWriter(w io.Writer, writeHeader bool) (*CSVReportWriter, error) {
	writer := &CSVReportWriter{w: csv.NewWriter(w)}
	if closer, ok := w.(io.Closer); ok {
		writer.closer = closer
	}

	if writeHeader {
		if err := writer.Write(ReportHeader); err != nil {
			return nil, err
		}
	}
	return writer, nil
}

// ReportOutputPath returns the file a run appends its rows to. Dry runs use a
// sibling file, report.csv becoming report.dry-run.csv, so the main report
// only ever lists subscriptions that were actually converted.
func ReportOutputPath(path string, dryRun bool) string {
	if !dryRun {
		return path
	}
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".dry-run" + ext
}

// OpenCSVReportFile opens path for appending so rows from earlier runs are
// kept. The header is written only when the file is new or empty.
func OpenCSVReportFile(path string) (*CSVReportWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open report file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat report file %s: %w", path, err)
	}

	writer, err := NewCSVReportWriter(file, info.Size() == 0)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return writer, nil
}

// Write writes and flushes a single row so partial runs leave a usable file.
func (w *CSVReportWriter) Write(row []string) error {
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("write report row: %w", err)
	}
	return w.Flush()
}

// Flush flushes buffered rows.
func (w *CSVReportWriter) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (w *CSVReportWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
