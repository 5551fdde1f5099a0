package models

import "time"

// Event is the envelope published to the event bus after a daily log
// has been committed, so downstream consumers (report mailers, BI
// exports) can react without polling the store.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // ingestion.completed, ingestion.failed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// APIResponse is the JSON envelope every HTTP endpoint returns.
type APIResponse struct {
	OK      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func OK(data interface{}) APIResponse {
	return APIResponse{OK: true, Data: data}
}

func OKWithMeta(data, meta interface{}) APIResponse {
	return APIResponse{OK: true, Data: data, Meta: meta}
}

func Fail(code, message string) APIResponse {
	return APIResponse{OK: false, Code: code, Message: message}
}
