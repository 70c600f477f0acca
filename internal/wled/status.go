package wled

import "context"

type StatusKind string

const (
	StatusUnknown StatusKind = "UNKNOWN"
	StatusOnline  StatusKind = "ONLINE"
	StatusOffline StatusKind = "OFFLINE"
)

type StatusDetail string

const (
	DetailNone                 StatusDetail = "NONE"
	DetailConfigurationPending StatusDetail = "CONFIGURATION_PENDING"
)

// Status is what a handler reports about its device.
type Status struct {
	Kind    StatusKind   `json:"status"`
	Detail  StatusDetail `json:"detail"`
	Message string       `json:"message,omitempty"`
}

type StatusEmitter interface {
	EmitStatus(ctx context.Context, id string, statusKey string, data interface{}) error
}
