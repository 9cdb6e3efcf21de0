package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	TransportMessage = "Unable to reach the restaurant search service"
	FallbackMessage  = "Failed to fetch restaurants"
)

// TransportError means the provider could not be reached or the exchange
// broke off before a response was read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError is a non-success response, or a success body that could not
// be decoded. Message holds the provider's own text when it sent one.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = FallbackMessage
	}
	return fmt.Sprintf("provider status %d: %s", e.Status, msg)
}

// Message collapses any gateway failure to the one string the UI displays.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if strings.TrimSpace(pe.Message) != "" {
			return pe.Message
		}
		return FallbackMessage
	}
	var te *TransportError
	if errors.As(err, &te) {
		return TransportMessage
	}
	return FallbackMessage
}

// providerMessage pulls a human-readable message out of an error body.
// Recognized shapes: {"message"}, {"detail": string|[{"msg"}]},
// {"error": string|{"description"|"message"}}.
func providerMessage(body []byte) string {
	var env struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if s := strings.TrimSpace(env.Message); s != "" {
		return s
	}
	if s := rawText(env.Detail, "msg"); s != "" {
		return s
	}
	return rawText(env.Error, "description", "message")
}

func rawText(raw json.RawMessage, fields ...string) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if json.Unmarshal(raw, &obj) == nil {
		for _, f := range fields {
			if v, ok := obj[f].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}
	var list []map[string]any
	if json.Unmarshal(raw, &list) == nil {
		var parts []string
		for _, item := range list {
			for _, f := range fields {
				if v, ok := item[f].(string); ok && v != "" {
					parts = append(parts, v)
					break
				}
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
