package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) RemoteCallCompleted(method string, statusClass string, d time.Duration) {}
func (n *NoopSink) JobsListed(count int)                                                   {}
func (n *NoopSink) SpecBuilt(product string)                                               {}
func (n *NoopSink) AuditWriteError()                                                       {}
