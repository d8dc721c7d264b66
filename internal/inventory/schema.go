package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// assetSchema validates an inventory import payload before decoding. Remote
// listings come from third-party endpoints; bad shapes should fail loudly at
// the boundary rather than as zero-valued items deep in the engine.
const assetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["assets"],
  "properties": {
    "assets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["display_name"],
        "properties": {
          "display_name": {"type": "string", "minLength": 1},
          "float": {"type": "number", "minimum": 0, "maximum": 1},
          "stattrak": {"type": "boolean"},
          "inspect_link": {"type": "string"}
        }
      }
    }
  }
}`

var compiledAssetSchema = jsonschema.MustCompileString("assets.json", assetSchema)

// importPayload is the JSON shape of an inventory import request.
type importPayload struct {
	Assets []RawAsset `json:"assets"`
}

// DecodePayload validates data against the asset schema and decodes it into
// raw assets.
func DecodePayload(data []byte) ([]RawAsset, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("inventory: decode payload: %w", err)
	}
	if err := compiledAssetSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("inventory: invalid payload: %s", summarize(err))
	}

	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("inventory: decode payload: %w", err)
	}
	return payload.Assets, nil
}

// summarize flattens a jsonschema validation error into one line.
func summarize(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
