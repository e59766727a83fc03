package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"

	"transaction-reconciler/internal/domain"
	"transaction-reconciler/internal/storage"
)

const (
	DefaultPrimaryIDField  = "providerTransactionId"
	DefaultFallbackIDField = "transactionId"

	amountField   = "amount"
	currencyField = "currency"
	statusField   = "status"
)

var (
	// ErrNoInput is returned when no locator is provided at all.
	ErrNoInput = errors.New("no input provided")
	// ErrInputRead wraps failures to open or read an input.
	ErrInputRead = errors.New("failed to read input")
	// ErrInputParse wraps malformed delimited text.
	ErrInputParse = errors.New("failed to parse input")
)

// CSVRecordRepository implements the RecordRepository interface for
// delimited text coming from inline payloads, local files or the object store.
type CSVRecordRepository struct {
	primaryIDField  string
	fallbackIDField string
	delimiter       rune
	store           storage.Client
	inlineOnly      bool
}

// Option configures a CSVRecordRepository.
type Option func(*CSVRecordRepository)

// WithIDFields sets the header names the id is read from, in preference order.
func WithIDFields(primary, fallback string) Option {
	return func(r *CSVRecordRepository) {
		if primary != "" {
			r.primaryIDField = primary
		}
		if fallback != "" {
			r.fallbackIDField = fallback
		}
	}
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) Option {
	return func(r *CSVRecordRepository) {
		if d != 0 {
			r.delimiter = d
		}
	}
}

// WithObjectStore enables s3://bucket/key locators.
func WithObjectStore(client storage.Client) Option {
	return func(r *CSVRecordRepository) {
		r.store = client
	}
}

// InlineOnly treats every locator as inline CSV text; files and the object
// store are never touched. Used for untrusted payloads.
func InlineOnly() Option {
	return func(r *CSVRecordRepository) {
		r.inlineOnly = true
	}
}

// NewCSVRecordRepository creates a new repository instance.
func NewCSVRecordRepository(opts ...Option) *CSVRecordRepository {
	r := &CSVRecordRepository{
		primaryIDField:  DefaultPrimaryIDField,
		fallbackIDField: DefaultFallbackIDField,
		delimiter:       ',',
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetRecords resolves the locator and parses its content.
// A locator containing a newline is inline CSV text, an s3:// locator is
// fetched from the object store, anything else is a local file path.
func (r *CSVRecordRepository) GetRecords(ctx context.Context, locator string) ([]domain.NormalizedRecord, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, ErrNoInput
	}

	rc, name, err := r.open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := r.ParseRecords(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return records, nil
}

func (r *CSVRecordRepository) open(ctx context.Context, locator string) (io.ReadCloser, string, error) {
	if r.inlineOnly || strings.ContainsAny(locator, "\r\n") {
		return io.NopCloser(strings.NewReader(locator)), "inline input", nil
	}

	if storage.IsLocator(locator) {
		if r.store == nil {
			return nil, "", fmt.Errorf("%w: %s: object store is not configured", ErrInputRead, locator)
		}
		bucket, object, ok := storage.ParseLocator(locator)
		if !ok {
			return nil, "", fmt.Errorf("%w: malformed object locator %q", ErrInputRead, locator)
		}
		obj, err := r.store.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
		if err != nil {
			return nil, "", fmt.Errorf("%w: failed to get object %s: %w", ErrInputRead, locator, err)
		}
		return obj, locator, nil
	}

	file, err := os.Open(locator)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to open file %s: %w", ErrInputRead, locator, err)
	}
	return file, locator, nil
}

// ParseRecords reads delimited text with a header row into normalized
// records, preserving input order. Empty input yields no records.
func (r *CSVRecordRepository) ParseRecords(ctx context.Context, in io.Reader) ([]domain.NormalizedRecord, error) {
	reader := csv.NewReader(in)
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.NormalizedRecord{}, nil
	}
	if err != nil {
		return nil, classifyReadError("failed to read header", err)
	}
	header = normalizeHeader(header)

	records := make([]domain.NormalizedRecord, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyReadError("error reading record", err)
		}

		records = append(records, r.normalize(header, row))
	}
	return records, nil
}

func (r *CSVRecordRepository) normalize(header, row []string) domain.NormalizedRecord {
	raw := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(row) || name == "" {
			continue
		}
		raw[name] = row[i]
	}

	// RawFields stays verbatim; only the compared fields are trimmed.
	field := func(name string) string {
		return strings.TrimSpace(raw[name])
	}

	id := field(r.primaryIDField)
	if id == "" {
		id = field(r.fallbackIDField)
	}

	return domain.NormalizedRecord{
		ID:        id,
		Amount:    domain.ParseAmount(raw[amountField]),
		Currency:  field(currencyField),
		Status:    field(statusField),
		RawFields: raw,
	}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func classifyReadError(msg string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %w", ErrInputParse, msg, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrInputRead, msg, err)
}
