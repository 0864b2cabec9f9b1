package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepbuddy-ai/prepbuddy/internal/config"
)

func TestApplyPortFlag(t *testing.T) {
	t.Run("explicit flag beats the configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--port", "9999"}))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd, cfg)

		assert.Equal(t, "9999", cfg.Port)
	})

	t.Run("explicitly passing the default still wins", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"-p", "8080"}))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd, cfg)

		assert.Equal(t, "8080", cfg.Port)
	})

	t.Run("unset flag keeps the configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse(nil))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd, cfg)

		assert.Equal(t, "9090", cfg.Port)
	})
}
