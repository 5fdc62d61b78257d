package record

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// One in-memory database per test; extra pool connections would each
	// see their own empty database.
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, username, nickname, email, password_hash)
		VALUES ('u1', 'alice', 'Alice', 'alice@example.com', 'x'),
		       ('u2', 'bob', 'Bob', 'bob@example.com', 'x')`)
	require.NoError(t, err)

	return NewRepo(db)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{
		UserID: "u1",
		Title:  "Norwegian Wood",
		Author: "Haruki Murakami",
		Quote:  "If you only read the books that everyone else is reading...",
		Status: models.StatusRead,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Norwegian Wood", created.Title)
	assert.Equal(t, "Haruki Murakami", created.Author)
	assert.Equal(t, models.StatusRead, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, "u1", created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetByIDScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "Kitchen", Status: models.StatusRead})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateOptionalFieldsNullable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "Untitled Author", Status: models.StatusReading})
	require.NoError(t, err)
	assert.Empty(t, created.Author)
	assert.Empty(t, created.Quote)
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, status := range []string{models.StatusRead, models.StatusRead, models.StatusReading} {
		_, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "book", Author: "a", Status: status})
		require.NoError(t, err, "record %d", i)
	}
	_, err := repo.Create(ctx, models.Record{UserID: "u2", Title: "other shelf", Status: models.StatusRead})
	require.NoError(t, err)

	items, total, err := repo.List(ctx, "u1", "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	items, total, err = repo.List(ctx, "u1", models.StatusReading, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusReading, items[0].Status)

	items, total, err = repo.List(ctx, "u1", "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}

func TestListAllNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "first", Status: models.StatusRead})
	require.NoError(t, err)
	second, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "second", Status: models.StatusRead})
	require.NoError(t, err)

	all, err := repo.ListAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "draft", Status: models.StatusWantToRead})
	require.NoError(t, err)

	created.Title = "final"
	created.Status = models.StatusRead
	ok, err := repo.Update(ctx, *created)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, models.StatusRead, got.Status)

	// Wrong owner touches nothing.
	created.UserID = "u2"
	ok, err = repo.Update(ctx, *created)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "gone soon", Status: models.StatusRead})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, "u2", created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatusHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Record{UserID: "u1", Title: "book", Status: models.StatusWantToRead})
	require.NoError(t, err)

	for _, status := range []string{models.StatusWantToRead, models.StatusReading, models.StatusRead} {
		err := repo.AddStatusChange(ctx, models.StatusChange{
			UserID:   "u1",
			RecordID: created.ID,
			Status:   status,
		})
		require.NoError(t, err)
	}

	changes, total, err := repo.ListStatusHistory(ctx, "u1", created.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, changes, 3)
	for _, ch := range changes {
		assert.Equal(t, created.ID, ch.RecordID)
		assert.False(t, ch.At.IsZero())
	}
}
