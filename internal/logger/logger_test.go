package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

func TestWithRunID(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))

	ctx := logger.WithRunID(context.Background())
	id := logger.RunID(ctx)
	assert.Len(t, id, 26)

	other := logger.RunID(logger.WithRunID(context.Background()))
	assert.NotEqual(t, id, other)

	assert.Empty(t, logger.RunID(context.Background()))
	assert.NotNil(t, logger.FromContext(ctx))
}
