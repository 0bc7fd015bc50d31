package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/navsplit/internal/model"
)

// marshalBody converts v to canonical JSON TEXT for storage.
func marshalBody(v any) (string, error) {
	data, err := model.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}
	return string(data), nil
}

// unmarshalBody parses a stored body into out.
func unmarshalBody(data string, out any) error {
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("unmarshal body: %w", err)
	}
	return nil
}
