package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ sdklog.Processor = (*recordingProcessor)(nil)

// recordingProcessor keeps the body of every emitted record
type recordingProcessor struct {
	mu     sync.Mutex
	bodies []string
}

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, r.Body().AsString())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }
func (p *recordingProcessor) Shutdown(context.Context) error                         { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error                       { return nil }

func (p *recordingProcessor) Bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, nil)
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	processor := &recordingProcessor{}
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{
		Enabled:     true,
		ServiceName: "crm-test",
	}, zap.NewNop(), WithLogProcessor(processor))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	core, observed := observer.New(zapcore.DebugLevel)
	log := lp.Bridge(zap.New(core), zapcore.InfoLevel)

	log.Debug("too quiet")
	log.Info("customer created", zap.Uint("customer_id", 7))
	log.With(zap.String("request_id", "r-1")).Warn("slow query")

	assert.Equal(t, 3, observed.Len(), "base core still sees every entry")
	assert.Equal(t, []string{"customer created", "slow query"}, processor.Bodies())
}
