package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/internal/testutil"
)

func TestRunIsIdempotent(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, Run(ctx, store))
	require.NoError(t, Run(ctx, store))

	n, err := store.Articles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	srcs, err := store.Sources.List(ctx)
	require.NoError(t, err)
	assert.Len(t, srcs, 6)

	tg, err := store.Tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tg, 9)

	u, err := store.Users.GetByUsername(ctx, TestUsername)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password")))

	list, err := store.Articles.List(ctx, repository.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Title, "JavaScript Animation Engine")

	sum, err := store.Reactions.Summary(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(demoUsers), sum.Likes)
	assert.GreaterOrEqual(t, sum.Comments, int64(2))
}
