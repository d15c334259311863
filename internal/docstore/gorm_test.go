package docstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

func openTestDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))
	return db, dsn
}

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, _ := openTestDB(t)
	s := NewGormStore(db, "test-"+NewKey()[:12])
	t.Cleanup(func() {
		_ = s.Close()
		db.Where("namespace = ?", s.namespace).Delete(&models.Document{})
	})
	return s
}

func TestGormStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return newGormStore(t)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\_b\%c\\d`, escapeLike(`a_b%c\d`))
}

func TestGormStoreListenerFansOut(t *testing.T) {
	a := newGormStore(t)
	db, dsn := openTestDB(t)

	b := NewGormStore(db, a.namespace)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.Listen(ctx, dsn)
	defer b.Close()

	sub, err := b.Subscribe(ctx, "teacherAppointments/T1")
	require.NoError(t, err)
	defer sub.Close()
	receive(t, sub)

	// Give the listener time to issue LISTEN before the write.
	time.Sleep(500 * time.Millisecond)

	require.NoError(t, a.Set(context.Background(), "teacherAppointments/T1/k", map[string]string{"status": "Accepted"}))

	var got map[string]map[string]string
	require.NoError(t, receive(t, sub).Decode(&got))
	assert.Equal(t, "Accepted", got["k"]["status"])
}
