package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Invoke looks up an operation by the name the LLM requested, unmarshals the
// raw JSON arguments, and runs it. The operation's own failures come back as
// guidance text; Invoke errors only on unknown names or malformed arguments.
func (p *Provider) Invoke(ctx context.Context, name string, raw json.RawMessage) (string, error) {
	op, err := findOperationByName(name)
	if err != nil {
		return "", err
	}

	slog.Info("invoking warehouse tool", "tool", name, "arguments", string(raw))
	return op.Call(ctx, p, raw)
}

func findOperationByName(name string) (*operation, error) {
	for i := range operations {
		if operations[i].Name == name {
			return &operations[i], nil
		}
	}
	return nil, fmt.Errorf("operation with name %q not found", name)
}

func unmarshalArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("failed to unmarshal tool arguments: %w", err)
	}
	return nil
}
