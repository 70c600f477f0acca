package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
)

type StatusEmitter struct {
	mc *MQTTClient
}

func NewMqttStatusEmitter(mc *MQTTClient) *StatusEmitter {
	return &StatusEmitter{mc: mc}
}

// EmitStatus publishes data as retained JSON on <prefix>/status/<id>/<statusKey>.
func (e *StatusEmitter) EmitStatus(ctx context.Context, id string, statusKey string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s status for %s: %w", statusKey, id, err)
	}
	return e.mc.enqueue(message{
		topic:   e.mc.statusTopic(id, statusKey),
		payload: string(payload),
		retain:  true,
	})
}
