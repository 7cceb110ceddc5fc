package state

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/tuneup/studio/internal/core/domain"
)

var (
	timestampType    = reflect.TypeOf(domain.Timestamp{})
	timestampPtrType = reflect.TypeOf(&domain.Timestamp{})
)

// timestampHook accepts every shape a timestamp takes across the facade.
// Anything unrecognised decodes as the epoch, which sorts like a missing
// timestamp.
func timestampHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timestampType && to != timestampPtrType {
		return data, nil
	}
	if ts, ok := domain.ParseTimestamp(data); ok {
		return ts, nil
	}
	return domain.Timestamp{}, nil
}

// decodeDocument maps a stored document onto a typed record. The document id
// wins over any "id" field in the data.
func decodeDocument[T any](doc domain.Document) (T, error) {
	var out T

	input := make(map[string]any, len(doc.Data)+1)
	for k, v := range doc.Data {
		input[k] = v
	}
	input["id"] = doc.ID

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timestampHook,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(input); err != nil {
		return out, fmt.Errorf("decode %s: %w", doc.ID, err)
	}
	return out, nil
}

func decodeDocuments[T any](docs []domain.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
