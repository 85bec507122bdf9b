package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/repository"
	testingutil "github.com/amirphl/card-transactions-generator/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamoDBHashPanRepositoryByIDs(t *testing.T) {
	fake := newFakeDynamoDB()
	for i := int64(0); i < 300; i += 2 {
		fake.hashPans[i] = fmt.Sprintf("hp_%d", i)
	}
	repo := repository.NewDynamoDBHashPanRepository(fake, "hash_pans")

	ids := make([]int64, 0, 260)
	for i := int64(0); i < 250; i++ {
		ids = append(ids, i)
	}
	ids = append(ids, 4, 4, 8) // duplicates are requested once

	got, err := repo.ByIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, got, 125)
	assert.Equal(t, "hp_4", got[4])
	_, ok := got[5]
	assert.False(t, ok)
	assert.Equal(t, 3, fake.batchCalls)
}

func TestDynamoDBHashPanRepositoryRetriesUnprocessedKeys(t *testing.T) {
	fake := newFakeDynamoDB()
	fake.unprocessed = true
	for i := int64(0); i < 10; i++ {
		fake.hashPans[i] = fmt.Sprintf("hp_%d", i)
	}
	repo := repository.NewDynamoDBHashPanRepository(fake, "hash_pans")

	got, err := repo.ByIDs(context.Background(), []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 2, fake.batchCalls)
}

func TestDynamoDBHashPanRepositoryEmpty(t *testing.T) {
	fake := newFakeDynamoDB()
	got, err := repository.NewDynamoDBHashPanRepository(fake, "hash_pans").ByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, fake.batchCalls)
}

func TestPostgresHashPanRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(testDB)
		_, err := fixtures.CreateHashPans(ctx, 50)
		require.NoError(t, err)

		repo := repository.NewHashPanRepository(testDB.DB, "")

		t.Run("ByIDs", func(t *testing.T) {
			got, err := repo.ByIDs(ctx, []int64{1, 7, 49, 50, 1000})
			require.NoError(t, err)
			assert.Equal(t, map[int64]string{
				1:  testingutil.HashPanValue(1),
				7:  testingutil.HashPanValue(7),
				49: testingutil.HashPanValue(49),
			}, got)
		})

		t.Run("ByID", func(t *testing.T) {
			hp, err := repo.ByID(ctx, 3)
			require.NoError(t, err)
			require.NotNil(t, hp)
			assert.Equal(t, testingutil.HashPanValue(3), hp.HashPan)

			missing, err := repo.ByID(ctx, 999)
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("Count and Exists", func(t *testing.T) {
			count, err := repo.Count(ctx, models.HashPanFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(50), count)

			exists, err := repo.Exists(ctx, models.HashPanFilter{IDs: []int64{999}})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("ByFilter pagination", func(t *testing.T) {
			rows, err := repo.ByFilter(ctx, models.HashPanFilter{}, "id DESC", 5, 10)
			require.NoError(t, err)
			require.Len(t, rows, 5)
			assert.Equal(t, int64(39), rows[0].ID)
		})

		t.Run("SaveBatch rolls back with its transaction", func(t *testing.T) {
			rows := []*models.HashPan{
				{ID: 500, HashPan: testingutil.HashPanValue(500)},
				{ID: 501, HashPan: testingutil.HashPanValue(501)},
			}
			errAbort := errors.New("abort")
			err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
				require.NoError(t, repo.SaveBatch(txCtx, rows))
				inside, err := repo.Count(txCtx, models.HashPanFilter{IDs: []int64{500, 501}})
				require.NoError(t, err)
				assert.Equal(t, int64(2), inside)
				return errAbort
			})
			require.ErrorIs(t, err, errAbort)

			exists, err := repo.Exists(ctx, models.HashPanFilter{IDs: []int64{500, 501}})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("Save outside a transaction commits", func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, &models.HashPan{ID: 600, HashPan: testingutil.HashPanValue(600)}))
			hp, err := repo.ByID(ctx, 600)
			require.NoError(t, err)
			require.NotNil(t, hp)
			assert.Equal(t, testingutil.HashPanValue(600), hp.HashPan)
		})
		return nil
	})
	if errors.Is(err, testingutil.ErrNoTestDB) {
		t.Skipf("skipping postgres test: %v", err)
	}
	require.NoError(t, err)
}
