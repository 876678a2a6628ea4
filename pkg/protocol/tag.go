package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/recipe-decider/pkg/domain"
)

// splitTag decodes a single-tag envelope into its tag and raw body.
func splitTag(data []byte) (string, json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	if len(envelope) != 1 {
		return "", nil, fmt.Errorf("%w: expected exactly one tag, got %d", domain.ErrMalformed, len(envelope))
	}
	for tag, body := range envelope {
		return tag, body, nil
	}
	panic("unreachable")
}

// tagged encodes body under tag.
func tagged(tag string, body any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: body})
}

// decodeBody unmarshals a tag body, rejecting null where an object is required.
func decodeBody(tag string, body json.RawMessage, v any) error {
	if len(bytes.TrimSpace(body)) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return fmt.Errorf("%w: %s has no body", domain.ErrMalformed, tag)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformed, tag, err)
	}
	return nil
}

// decodeTrue accepts only the literal true used by the argument-less requests.
func decodeTrue(tag string, body json.RawMessage) error {
	var flag bool
	if err := json.Unmarshal(body, &flag); err != nil || !flag {
		return fmt.Errorf("%w: %s expects true", domain.ErrMalformed, tag)
	}
	return nil
}
