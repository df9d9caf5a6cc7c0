package discount

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"smarthome-mall/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Columns of a discount file, in order. Empty value, uses_left or expiration_date
// fields are stored as NULL.
var fileHeader = []string{"code", "kind", "value", "uses_left", "expiration_date", "can_cumulate"}

// fileLoader implements Loader for reading gzipped discount files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based discount loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "discount-loader").Logger(),
	}
}

// Load reads a gzipped CSV discount file and returns a Catalogue.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Catalogue, error) {
	l.logger.Info().Str("file", filePath).Msg("loading discount file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open discount file")
		return nil, fmt.Errorf("failed to open discount file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	catalogue, err := readCatalogue(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading discount file")
		return nil, fmt.Errorf("error reading discount file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("codes_loaded", catalogue.Size()).
		Msg("discount file loaded successfully")

	return catalogue, nil
}

// readCatalogue parses CSV rows into a catalogue. A header row matching
// fileHeader is skipped.
func readCatalogue(ctx context.Context, r io.Reader) (*MapCatalogue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(fileHeader)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	catalogue := NewMapCatalogue(1024)

	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), fileHeader[0]) {
			continue
		}

		code, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		catalogue.Add(code)
	}

	return catalogue, nil
}

func parseRecord(record []string) (model.DiscountCode, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	code := model.DiscountCode{
		Code: strings.ToUpper(record[0]),
		Kind: model.DiscountKind(strings.ToLower(record[1])),
	}

	if record[2] != "" {
		value, err := decimal.NewFromString(record[2])
		if err != nil {
			return code, fmt.Errorf("invalid value %q: %w", record[2], err)
		}
		code.Value = decimal.NewNullDecimal(value)
	}

	if record[3] != "" {
		uses, err := strconv.Atoi(record[3])
		if err != nil {
			return code, fmt.Errorf("invalid uses_left %q: %w", record[3], err)
		}
		code.UsesLeft = &uses
	}

	if record[4] != "" {
		expires, err := time.Parse(time.RFC3339, record[4])
		if err != nil {
			return code, fmt.Errorf("invalid expiration_date %q: %w", record[4], err)
		}
		code.ExpirationDate = &expires
	}

	if record[5] != "" {
		cumulate, err := strconv.ParseBool(record[5])
		if err != nil {
			return code, fmt.Errorf("invalid can_cumulate %q: %w", record[5], err)
		}
		code.CanCumulate = cumulate
	}

	if err := ValidateDefinition(code); err != nil {
		return code, err
	}

	return code, nil
}
