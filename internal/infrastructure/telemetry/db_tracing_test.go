package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tracedRow struct {
	ID   uint
	Name string
}

func TestRegisterGormTracing(t *testing.T) {
	tp, exporter := newRecordingProvider(t)
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	require.NoError(t, RegisterGormTracing(db, DBTracingConfig{
		Enabled:         true,
		DBName:          "crm",
		SlowQueryThresh: time.Nanosecond,
	}, nil))

	spanCtx, parent := tp.Tracer("test").Start(ctx, "request")
	require.NoError(t, db.WithContext(spanCtx).Create(&tracedRow{Name: "x"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(spanCtx).Find(&rows).Error)
	parent.End()

	require.NoError(t, tp.ForceFlush(ctx))
	spans := exporter.GetSpans()
	// the request span plus one span per statement
	assert.GreaterOrEqual(t, len(spans), 3)
	for _, s := range spans {
		if s.Name == "request" {
			continue
		}
		assert.Equal(t, parent.SpanContext().TraceID(), s.SpanContext.TraceID())
	}
}

func TestRegisterGormTracing_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, RegisterGormTracing(db, DBTracingConfig{Enabled: false}, nil))
}
