package playerv1

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Codec is the JSON codec used by handlers and clients.
// It is registered under "json" so it replaces the protobuf JSON codec.
type Codec struct{}

// Name returns the codec name.
func (Codec) Name() string {
	return "json"
}

// Marshal encodes a message.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal message")
	}
	return data, nil
}

// Unmarshal decodes a message. An empty body leaves msg untouched.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrap(err, "failed to unmarshal message")
	}
	return nil
}
