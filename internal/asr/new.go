package asr

import (
	"fmt"

	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
)

// New selects the configured ASR provider. Selection happens once at process
// start; the returned Transcriber is held for the process lifetime.
func New(cfg config.ASRConfig, log logger.Logger) (Transcriber, error) {
	switch cfg.Provider {
	case "groq":
		return newGroq(cfg, log), nil
	case "gemini":
		return newGemini(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown asr provider %q", cfg.Provider)
	}
}
