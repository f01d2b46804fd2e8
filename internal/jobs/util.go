package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
)

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// payloadAssetID extracts "asset_id" or "media_asset_id" from a raw
// job payload without going through RunContext, for use by Manager
// when constructing events after a handler has already returned.
func payloadAssetID(payload []byte) (*uuid.UUID, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var mp map[string]any
	if err := json.Unmarshal(payload, &mp); err != nil {
		return nil, err
	}
	for _, key := range []string{"asset_id", "media_asset_id"} {
		v, ok := mp[key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		return &id, nil
	}
	return nil, nil
}
