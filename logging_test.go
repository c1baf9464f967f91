package kilobite

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		info  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{" warn ", false, false},
		{"", false, true},
		{"chatty", false, true},
	}
	for _, tt := range tests {
		log, err := NewLogger(tt.level)
		require.NoError(t, err, tt.level)
		require.Equal(t, tt.debug, log.Core().Enabled(zap.DebugLevel), tt.level)
		require.Equal(t, tt.info, log.Core().Enabled(zap.InfoLevel), tt.level)
	}
}
