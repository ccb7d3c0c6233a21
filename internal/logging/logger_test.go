package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_WhenDevelopmentEnvironment_ThenReturnsLogger(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("development", "debug", "console")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, logger)
	_ = logger.Sync()
}

func TestNewLogger_WhenProductionEnvironment_ThenReturnsLogger(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "info", "json")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, logger)
	_ = logger.Sync()
}

func TestNewLogger_WhenInvalidLogLevel_ThenDefaultsToInfo(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "invalid-level", "")

	// Assert
	require.NoError(t, err)
	assert.False(t, logger.Zap().Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Zap().Core().Enabled(zap.InfoLevel))
}

func TestNewLogger_WhenDebugLevel_ThenDebugEnabled(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "debug", "console")

	// Assert
	require.NoError(t, err)
	assert.True(t, logger.Zap().Core().Enabled(zap.DebugLevel))
}

func TestNewDevelopmentLogger_WhenCalled_ThenReturnsLogger(t *testing.T) {
	logger, err := NewDevelopmentLogger()

	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("test debug message", zap.String("key", "value"))
}

func TestNewProductionLogger_WhenCalled_ThenReturnsLogger(t *testing.T) {
	logger, err := NewProductionLogger()

	require.NoError(t, err)
	logger.Info("test info message", zap.String("key", "value"))
	logger.Warn("test warn message")
	logger.Error("test error message")
}

func TestZapLogger_With_WhenCalledWithFields_ThenReturnsChildLogger(t *testing.T) {
	// Arrange
	logger, err := NewProductionLogger()
	require.NoError(t, err)

	// Act
	child := logger.With(zap.String("request_id", "123"))

	// Assert
	require.NotNil(t, child)
	child.Info("test message")
}

func TestNoOpLogger_AllMethods_WhenCalled_ThenDoNothing(t *testing.T) {
	// Arrange
	logger := NewNoOpLogger()

	// Act & Assert (should not panic)
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	assert.Same(t, logger, logger.With(zap.String("key", "value")))
	assert.NotNil(t, logger.Zap())
	assert.NoError(t, logger.Sync())
}
