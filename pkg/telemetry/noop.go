package telemetry

import "context"

type noopCollector struct{}

func (n *noopCollector) RecordCLI(err error) {}

func (n *noopCollector) Flush(ctx context.Context) {}

// NewNoopCollector returns a collector that records nothing.
func NewNoopCollector() CLICollector {
	return &noopCollector{}
}
