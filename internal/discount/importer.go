package discount

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Importer loads discount files concurrently and upserts the merged result.
type Importer struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewImporter creates a new discount importer.
func NewImporter(loader Loader, store Store, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "discount-importer").Logger(),
	}
}

// Import loads every file and upserts the codes. When the same code appears in
// several files, the definition from the later file wins.
func (i *Importer) Import(ctx context.Context, filePaths []string) (int, error) {
	i.logger.Info().
		Int("file_count", len(filePaths)).
		Msg("importing discount files")

	catalogues, err := i.loadAll(ctx, filePaths)
	if err != nil {
		return 0, err
	}

	merged := NewMapCatalogue(1024)
	for _, c := range catalogues {
		for _, code := range c.Codes() {
			merged.Add(code)
		}
	}

	if merged.Size() == 0 {
		i.logger.Warn().Msg("no discount codes found to import")
		return 0, nil
	}

	n, err := i.store.Upsert(ctx, merged.Codes())
	if err != nil {
		i.logger.Error().Err(err).Int("codes", merged.Size()).Msg("failed to store discount codes")
		return 0, fmt.Errorf("failed to store discount codes: %w", err)
	}

	i.logger.Info().
		Int("codes", merged.Size()).
		Int("stored", n).
		Msg("discount import completed")

	return n, nil
}

// loadAll loads the files concurrently and returns the catalogues in input order.
func (i *Importer) loadAll(ctx context.Context, filePaths []string) ([]Catalogue, error) {
	type loadResult struct {
		index     int
		catalogue Catalogue
		err       error
	}

	resultChan := make(chan loadResult, len(filePaths))
	var wg sync.WaitGroup

	for idx, filePath := range filePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			catalogue, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{
				index:     index,
				catalogue: catalogue,
				err:       err,
			}
		}(idx, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(filePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	catalogues := make([]Catalogue, 0, len(filePaths))
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", filePaths[idx]).
				Msg("failed to load discount file")
			return nil, fmt.Errorf("failed to load discount file %s: %w", filePaths[idx], result.err)
		}
		catalogues = append(catalogues, result.catalogue)
	}

	return catalogues, nil
}
