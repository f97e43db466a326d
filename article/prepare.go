package article

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/HC-ProductTech/hwpers/state"
)

// Prepare reads, parses, and validates an exported article payload.
func Prepare(ctx context.Context, r io.Reader, srcName string, log *zap.Logger) (*Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read article payload: %w", err)
	}

	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unable to parse article JSON: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("article payload is not convertible: %w", err)
	}

	// Keep the raw payload for debugging
	env.Rpt.StoreData(filepath.Base(srcName), data)

	log.Debug("Article prepared",
		zap.String("id", e.Data.Article.AtclID),
		zap.String("subject", e.Data.Article.Subject),
		zap.Int("contents", len(e.Data.Article.Contents)))

	return &e, nil
}
