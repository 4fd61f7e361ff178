package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/sqlitetest"
)

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(sqlitetest.Open(t))

	require.NoError(t, repo.Create(ctx, "u1", "tok", time.Hour))

	got, err := repo.Find(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.Expires, time.Minute)

	require.NoError(t, repo.Delete(ctx, "tok"))
	require.NoError(t, repo.Delete(ctx, "tok"))

	_, err = repo.Find(ctx, "tok")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
