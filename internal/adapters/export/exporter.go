// Package export renders participant lists as spreadsheets and stores them
// in the artifact store.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"fopmanager/internal/blob"
	"fopmanager/pkg/domain"
)

// Format selects the spreadsheet encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

const (
	// SheetName is the worksheet holding the contact rows.
	SheetName = "FOP CONTACTS"
	// KeyPrefix is prepended to every artifact key.
	KeyPrefix = "exports/"
	// FilePrefix starts every artifact file name.
	FilePrefix = "FOP_MANAGER_LIST"

	tagSeparator = "  ... "
	xlsxType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvType      = "text/csv"
)

// Columns are the header row, in order.
var Columns = []string{"NAME", "SEX", "BIRTHDAY", "PHONE", "EMAIL", "MAJOR", "GROUP", "TAGS"}

var (
	// ErrNothingToExport is returned for an empty participant list.
	ErrNothingToExport = errors.New("export: no participants to export")
	// ErrUnknownFormat is returned by ParseFormat and Export.
	ErrUnknownFormat = errors.New("export: unknown format")
)

// ParseFormat maps a user supplied name to a Format. Empty means xlsx.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, raw)
	}
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIDFunc overrides the artifact id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Exporter) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// Exporter writes spreadsheets into a blob.Store.
type Exporter struct {
	store  blob.Store
	logger *slog.Logger
	newID  func() string
}

// NewExporter returns an exporter writing to store.
func NewExporter(store blob.Store, opts ...Option) *Exporter {
	e := &Exporter{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders persons in order and stores the result under
// exports/FOP_MANAGER_LIST-<id>.<format>. The returned Info carries a
// download URL when the store can provide one.
func (e *Exporter) Export(ctx context.Context, persons []domain.Person, format Format) (blob.Info, error) {
	if len(persons) == 0 {
		return blob.Info{}, ErrNothingToExport
	}
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatXLSX:
		payload, err = renderXLSX(persons)
		contentType = xlsxType
	case FormatCSV:
		payload, err = renderCSV(persons)
		contentType = csvType
	default:
		return blob.Info{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return blob.Info{}, fmt.Errorf("render %s: %w", format, err)
	}
	key := fmt.Sprintf("%s%s-%s.%s", KeyPrefix, FilePrefix, e.newID(), format)
	info, err := e.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"rows": strconv.Itoa(len(persons)), "format": string(format)},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store export: %w", err)
	}
	if url, err := e.store.PresignURL(ctx, key, blob.SignedURLOptions{}); err == nil {
		info.URL = url
	} else if !errors.Is(err, blob.ErrUnsupported) {
		e.logger.Warn("export presign failed", "key", key, "error", err)
	}
	e.logger.Info("export stored", "key", key, "rows", len(persons), "driver", string(e.store.Driver()))
	return info, nil
}

// Row returns the cells written for p.
func Row(p domain.Person) []string {
	return []string{p.Name, p.Sex, p.Birthday, p.Phone, p.Email, p.Major, p.Group, strings.Join(p.SortedTags(), tagSeparator)}
}

func renderXLSX(persons []domain.Person) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	if err := writeSheetRow(f, 1, Columns); err != nil {
		return nil, err
	}
	for i, p := range persons {
		if err := writeSheetRow(f, i+2, Row(p)); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(SheetName, cell, &values)
}

func renderCSV(persons []domain.Person) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, p := range persons {
		if err := w.Write(Row(p)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
