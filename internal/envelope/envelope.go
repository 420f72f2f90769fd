// Package envelope normalizes the backend's inconsistent response envelopes.
// Depending on the endpoint, a list arrives as {success,data,message}, as
// {datos:[...]}, or as a bare array; the fallback order here (data → datos →
// bare) is part of the API contract and must not be reordered.
package envelope

import (
	"bytes"
	"encoding/json"
)

type sobre struct {
	Success *FlexBool       `json:"success"`
	Data    json.RawMessage `json:"data"`
	Datos   json.RawMessage `json:"datos"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func esArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func esObjeto(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

// Lista extracts the item list from a collection response. Unrecognized
// shapes yield an empty list, never an error: a body that carries no list
// is treated as "no items".
func Lista(body []byte) []json.RawMessage {
	var items []json.RawMessage

	if esArray(body) {
		if json.Unmarshal(body, &items) == nil {
			return items
		}
		return nil
	}

	var s sobre
	if err := json.Unmarshal(body, &s); err != nil {
		return nil
	}
	if esArray(s.Data) && json.Unmarshal(s.Data, &items) == nil {
		return items
	}
	if esArray(s.Datos) && json.Unmarshal(s.Datos, &items) == nil {
		return items
	}
	return nil
}

// DecodificarLista normalizes body and decodes each item into T, preserving
// order. A single malformed item fails the whole decode so that schema
// drift surfaces as a diagnostic instead of a half-populated collection.
func DecodificarLista[T any](body []byte) ([]T, error) {
	raw := Lista(body)
	items := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Objeto extracts a single entity: the envelope's data field when it holds
// an object, otherwise the body itself.
func Objeto(body []byte) json.RawMessage {
	var s sobre
	if err := json.Unmarshal(body, &s); err == nil && esObjeto(s.Data) {
		return s.Data
	}
	return body
}

// DecodificarObjeto normalizes body and decodes the entity into T.
func DecodificarObjeto[T any](body []byte) (T, error) {
	var item T
	err := json.Unmarshal(Objeto(body), &item)
	return item, err
}

// MensajeError extracts the human-readable failure text from an error body:
// the structured message field, then the structured error field, then the
// given transport-level fallback.
func MensajeError(body []byte, fallback string) string {
	var s sobre
	if err := json.Unmarshal(body, &s); err == nil {
		if s.Message != "" {
			return s.Message
		}
		if s.Error != "" {
			return s.Error
		}
	}
	return fallback
}
