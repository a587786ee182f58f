package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

// CurrentSchemaVersion tags every value written by this build.
const CurrentSchemaVersion = 1

// legacySchemaVersion marks bare payloads written before values were enveloped.
const legacySchemaVersion = 0

// ErrNotFound is returned when a lookup by id has no match.
var ErrNotFound = errors.New("record not found")

type envelope struct {
	SchemaVersion *int            `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

// document is a stored payload together with the schema version it was written with.
type document struct {
	version int
	data    json.RawMessage
	// ignored is set when a value exists but could not be used.
	ignored bool
}

// documentStore reads and writes versioned JSON values on top of a kvstore.
type documentStore struct {
	store  kvstore.Store
	logger *zap.Logger
}

func newDocumentStore(store kvstore.Store, logger *zap.Logger) documentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return documentStore{store: store, logger: logger}
}

// load returns ok=false when the key is absent, unreadable, or written by a
// newer schema. Only store failures are returned as errors.
func (d documentStore) load(ctx context.Context, key string) (document, bool, error) {
	raw, err := d.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return document{}, false, nil
		}
		return document{}, false, fmt.Errorf("load %s: %w", key, err)
	}

	payload := []byte(raw)
	if !json.Valid(payload) {
		d.logger.Warn("ignoring unreadable stored value", zap.String("key", key))
		return document{ignored: true}, false, nil
	}

	var env envelope
	if bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		if err := json.Unmarshal(payload, &env); err == nil && env.SchemaVersion != nil {
			version := *env.SchemaVersion
			if version > CurrentSchemaVersion {
				d.logger.Warn("ignoring stored value from a newer schema",
					zap.String("key", key),
					zap.Int("schema_version", version),
					zap.Int("supported_version", CurrentSchemaVersion),
				)
				return document{ignored: true}, false, nil
			}
			return document{version: version, data: env.Data}, true, nil
		}
	}

	return document{version: legacySchemaVersion, data: payload}, true, nil
}

// save replaces the value at key with an envelope at the current schema version.
func (d documentStore) save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	version := CurrentSchemaVersion
	payload, err := json.Marshal(envelope{SchemaVersion: &version, Data: data})
	if err != nil {
		return fmt.Errorf("marshal envelope %s: %w", key, err)
	}
	if err := d.store.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (d documentStore) remove(ctx context.Context, key string) error {
	if err := d.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func decode(key string, doc document, dest interface{}) error {
	if len(doc.data) == 0 || string(doc.data) == "null" {
		return nil
	}
	if err := json.Unmarshal(doc.data, dest); err != nil {
		return fmt.Errorf("decode %s (schema %d): %w", key, doc.version, err)
	}
	return nil
}
