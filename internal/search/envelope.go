package search

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dias221467/Recipe_Manager/internal/models"
)

// CriteriaVersion is the envelope version written by EncodeCriteria.
const CriteriaVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported criteria version")

type envelope struct {
	Version  int             `json:"version"`
	Criteria json.RawMessage `json:"criteria"`
}

// EncodeCriteria serializes criteria into a versioned envelope for storage.
func EncodeCriteria(c models.SearchCriteria) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode criteria: %w", err)
	}
	out, err := json.Marshal(envelope{Version: CriteriaVersion, Criteria: raw})
	if err != nil {
		return "", fmt.Errorf("failed to encode criteria envelope: %w", err)
	}
	return string(out), nil
}

// DecodeCriteria reads a stored criteria blob. A blob without a version key is
// read as a bare criteria object.
func DecodeCriteria(blob string) (models.SearchCriteria, error) {
	var c models.SearchCriteria

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &probe); err != nil {
		return c, fmt.Errorf("failed to decode criteria: %w", err)
	}

	if _, versioned := probe["version"]; !versioned {
		if err := json.Unmarshal([]byte(blob), &c); err != nil {
			return c, fmt.Errorf("failed to decode legacy criteria: %w", err)
		}
		return c, nil
	}

	var env envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return c, fmt.Errorf("failed to decode criteria envelope: %w", err)
	}
	if env.Version < 1 || env.Version > CriteriaVersion {
		return c, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if len(env.Criteria) == 0 {
		return c, errors.New("criteria envelope has no criteria")
	}
	if err := json.Unmarshal(env.Criteria, &c); err != nil {
		return c, fmt.Errorf("failed to decode criteria: %w", err)
	}
	return c, nil
}
