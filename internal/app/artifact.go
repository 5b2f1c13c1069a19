package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// writeDiagnostic persists the raw model output and the final repair
// attempt after an unrecoverable parse. Best-effort and outside the
// functional contract: a write failure only logs.
func writeDiagnostic(dir, requestID, raw, attempt string) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("diagnostic dir unavailable")
		return
	}
	name := fmt.Sprintf("parse_failure_%s_%s.txt",
		time.Now().UTC().Format("20060102T150405Z"), requestID)
	body := fmt.Sprintf("request: %s\ncaptured: %s\n\n--- raw model output ---\n%s\n\n--- final repair attempt ---\n%s\n",
		requestID, time.Now().UTC().Format(time.RFC3339), raw, attempt)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("diagnostic write failed")
		return
	}
	log.Info().Str("path", path).Msg("parse diagnostic written")
}
