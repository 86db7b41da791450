package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "test.op")
	require.NotNil(t, ctx)
	span.SetError(errors.New("boom"))
	span.SetError(nil)
	span.End()

	var zero *Span
	zero.AddAttributes(UserID(1))
	zero.End()
}

func TestDomainAttributes(t *testing.T) {
	assert.Equal(t, AttrUserID, UserID(7).Key)
	assert.Equal(t, int64(7), UserID(7).Value.AsInt64())
	assert.Equal(t, AttrEventID, EventID(3).Key)
	assert.Equal(t, int64(3), EventID(3).Value.AsInt64())
}

func TestRegisterGormCallbacks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, RegisterGormCallbacks(db))

	type probe struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&probe{}))

	assert.NotNil(t, db.Callback().Create().Get("observability:create:after"))
	assert.NotNil(t, db.Callback().Query().Get("observability:query:before"))

	require.NoError(t, db.Create(&probe{Name: "a"}).Error)
	var got probe
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "a", got.Name)
}
