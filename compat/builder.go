package compat

import (
	"fmt"

	"github.com/lixenwraith/logmonitor"
)

// Builder creates gnet and fasthttp adapters on a shared logger.
// With a prefix, adapter streams are named "<prefix>-gnet" and "<prefix>-fasthttp",
// so several servers in one process keep separate files.
type Builder struct {
	logger *logmonitor.Logger
	prefix string
	err    error
}

// NewBuilder creates an adapter builder for a started logger
func NewBuilder(l *logmonitor.Logger) *Builder {
	b := &Builder{logger: l}
	if l == nil {
		b.err = fmt.Errorf("logmonitor/compat: provided logger cannot be nil")
	}
	return b
}

// StreamPrefix namespaces the default adapter streams
func (b *Builder) StreamPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// streamName applies the prefix to a default stream and validates the result
func (b *Builder) streamName(stream string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if b.prefix != "" {
		stream = b.prefix + "-" + stream
	}
	if err := logmonitor.ValidateStreamName(stream); err != nil {
		return "", fmt.Errorf("logmonitor/compat: %w", err)
	}
	return stream, nil
}

// BuildGnet creates a gnet adapter; a WithGnetStream option overrides the prefixed stream
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	stream, err := b.streamName(DefaultGnetStream)
	if err != nil {
		return nil, err
	}
	a := NewGnetAdapter(b.logger, append([]GnetOption{WithGnetStream(stream)}, opts...)...)
	if err := logmonitor.ValidateStreamName(a.stream); err != nil {
		return nil, fmt.Errorf("logmonitor/compat: %w", err)
	}
	return a, nil
}

// BuildFastHTTP creates a fasthttp adapter; a WithFastHTTPStream option overrides the prefixed stream
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	stream, err := b.streamName(DefaultFastHTTPStream)
	if err != nil {
		return nil, err
	}
	a := NewFastHTTPAdapter(b.logger, append([]FastHTTPOption{WithFastHTTPStream(stream)}, opts...)...)
	if err := logmonitor.ValidateStreamName(a.stream); err != nil {
		return nil, fmt.Errorf("logmonitor/compat: %w", err)
	}
	return a, nil
}
