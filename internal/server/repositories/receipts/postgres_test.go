package receipts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

const (
	digestA = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	digestB = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func strPtr(s string) *string { return &s }

var receiptCols = []string{"id", "digest", "filename", "created_at", "owner_id", "contact_email"}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fixClock(t, at)

	q := `(?s)^INSERT\s+INTO\s+receipts\s*\(id,\s*digest,\s*filename,\s*created_at,\s*owner_id,\s*contact_email\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)$`
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), digestA, "hello.txt", at, "u-1", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := &models.Receipt{Digest: digestA, Filename: "hello.txt", OwnerID: strPtr("u-1"), ContactEmail: "a@example.com"}
	got, err := repo.Create(context.Background(), r)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, at, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_AnonymousPassesNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+receipts`).
		WithArgs("fixed-id", digestA, "", sqlmock.AnyArg(), nil, "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.Receipt{ID: "fixed-id", Digest: digestA})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", got.ID)
	assert.Nil(t, got.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+receipts`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Receipt{Digest: digestA})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	assert.False(t, errors.Is(err, common.ErrStoreUnavailable))
}

func TestPostgresCreate_DeadlineIsStoreUnavailable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+receipts`).WillReturnError(context.DeadlineExceeded)

	_, err := repo.Create(context.Background(), &models.Receipt{Digest: digestA})
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestPostgresExistsByDigest(t *testing.T) {
	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+receipts\s+WHERE\s+digest\s*=\s*\$1\)$`

	for _, want := range []bool{true, false} {
		repo, mock, db := newRepoWithMock(t)

		mock.ExpectQuery(q).
			WithArgs(digestA).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.ExistsByDigest(context.Background(), digestA)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		db.Close()
	}
}

func TestPostgresExistsByDigest_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+EXISTS`).WillReturnError(errors.New("db err"))

	_, err := repo.ExistsByDigest(context.Background(), digestA)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*digest,\s*filename,\s*created_at,\s*owner_id,\s*contact_email\s+FROM\s+receipts\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id$`

	t1 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow("r-2", digestB, "b.txt", t1, "u-1", "").
			AddRow("r-1", digestA, "a.txt", t0, "u-1", "a@example.com"))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r-2", got[0].ID)
	assert.Equal(t, digestA, got[1].Digest)
	require.NotNil(t, got[1].OwnerID)
	assert.Equal(t, "u-1", *got[1].OwnerID)
}

func TestPostgresListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+receipts\s+WHERE\s+owner_id`).
		WithArgs("u-none").
		WillReturnRows(sqlmock.NewRows(receiptCols))

	got, err := repo.ListByOwner(context.Background(), "u-none")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresListByOwner_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+receipts\s+WHERE\s+owner_id`).
		WillReturnRows(sqlmock.NewRows(receiptCols).
			AddRow("r-1", digestA, "a.txt", time.Now(), "u-1", "").
			RowError(0, errors.New("broken row")))

	_, err := repo.ListByOwner(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken row")
}

func TestPostgresFindByDigest(t *testing.T) {
	q := `(?s)^SELECT\s+id,.*FROM\s+receipts\s+WHERE\s+digest\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC,\s*id\s+LIMIT\s+1$`

	t.Run("found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		at := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)
		mock.ExpectQuery(q).
			WithArgs(digestA).
			WillReturnRows(sqlmock.NewRows(receiptCols).AddRow("r-1", digestA, "", at, nil, ""))

		got, found, err := repo.FindByDigest(context.Background(), digestA)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, at, got.CreatedAt)
		assert.Nil(t, got.OwnerID)
		assert.Equal(t, models.UntitledFile, got.DisplayName())
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(digestB).WillReturnError(sql.ErrNoRows)

		got, found, err := repo.FindByDigest(context.Background(), digestB)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(digestB).WillReturnError(sql.ErrConnDone)

		_, found, err := repo.FindByDigest(context.Background(), digestB)
		assert.False(t, found)
		assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	})
}
