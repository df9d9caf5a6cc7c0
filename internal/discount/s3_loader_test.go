package discount

import (
	"context"
	"errors"
	"testing"

	"smarthome-mall/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of the Loader interface for testing.
type mockLoader struct {
	loadFunc func(ctx context.Context, filePath string) (Catalogue, error)
}

func (m *mockLoader) Load(ctx context.Context, filePath string) (Catalogue, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, filePath)
	}
	return nil, errors.New("not implemented")
}

func catalogueOf(codes ...string) Catalogue {
	c := NewMapCatalogue(len(codes))
	for _, code := range codes {
		c.Add(model.DiscountCode{Code: code, Kind: model.DiscountFreeShipping})
	}
	return c
}

func TestFallbackLoader_S3Success(t *testing.T) {
	ctx := context.Background()

	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			assert.Equal(t, "discounts/test.gz", filePath, "S3 key should have prefix")
			return catalogueOf("S3CODE"), nil
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "discounts/", zerolog.Nop())

	catalogue, err := fallback.Load(ctx, "test.gz")
	require.NoError(t, err)
	_, ok := catalogue.Get("S3CODE")
	assert.True(t, ok)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	ctx := context.Background()

	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			assert.Equal(t, "test.gz", filePath, "local file path should not have prefix")
			return catalogueOf("LOCALCODE"), nil
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "discounts/", zerolog.Nop())

	catalogue, err := fallback.Load(ctx, "test.gz")
	require.NoError(t, err)
	_, ok := catalogue.Get("LOCALCODE")
	assert.True(t, ok)
}

func TestFallbackLoader_NoS3LoaderUsesLocal(t *testing.T) {
	called := false
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			called = true
			return catalogueOf("LOCALONLY"), nil
		},
	}

	fallback := NewFallbackLoader(nil, fileLoader, "discounts/", zerolog.Nop())

	_, err := fallback.Load(context.Background(), "test.gz")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	s3Loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	fileLoader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) (Catalogue, error) {
			return nil, errors.New("file not found")
		},
	}

	fallback := NewFallbackLoader(s3Loader, fileLoader, "discounts/", zerolog.Nop())

	catalogue, err := fallback.Load(context.Background(), "test.gz")
	require.Error(t, err)
	assert.Nil(t, catalogue)
	assert.Contains(t, err.Error(), "file not found")
}
