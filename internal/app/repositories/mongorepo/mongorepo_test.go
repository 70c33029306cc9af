package mongorepo

import (
	"context"
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/repositories/repotest"
	"github.com/yigit/examprep/internal/config"
	"github.com/yigit/examprep/internal/db"
)

func TestMongoRepositories(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	cfg := &config.Config{}
	cfg.Database.Mongo.URI = uri
	cfg.Database.Mongo.Database = "examprep_test_" + gofakeit.LetterN(8)

	ctx := context.Background()
	mdb, err := db.NewMongoDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mdb.Database.Drop(ctx)
		_ = mdb.Close(ctx)
	})

	require.NoError(t, mdb.EnsureIndexes(ctx))
	repotest.Run(t, NewRepositories(mdb.Database))
}
