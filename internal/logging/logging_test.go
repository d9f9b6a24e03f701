package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetupTo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Run("json outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupTo(&buf, "PROD", "info")
		log.Debug().Msg("hidden")
		log.Info().Str("kind", "coffees").Msg("listed")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "listed", line["message"])
		require.Equal(t, "coffees", line["kind"])
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupTo(&buf, "PROD", "loud")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("console in DEV", func(t *testing.T) {
		var buf bytes.Buffer
		logging.SetupTo(&buf, "DEV", "debug")
		log.Debug().Msg("brewing")
		require.Contains(t, buf.String(), "brewing")
		require.False(t, json.Valid(buf.Bytes()))
	})
}
