package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// The storage-level filter and models.VisibleAt must agree on boundary
// semantics; these tests pin the filter's shape.
func TestVisibleFilterShape(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	filter := visibleFilter(now)

	assert.Equal(t, true, filter["is_active"])

	clauses, ok := filter["$and"].(bson.A)
	require.True(t, ok, "window predicate must be an $and of two $or clauses")
	require.Len(t, clauses, 2)

	startOr := clauses[0].(bson.M)["$or"].(bson.A)
	assert.Contains(t, startOr, bson.M{"start_date": bson.M{"$lte": now}})
	assert.Contains(t, startOr, bson.M{"start_date": bson.M{"$exists": false}})

	endOr := clauses[1].(bson.M)["$or"].(bson.A)
	assert.Contains(t, endOr, bson.M{"end_date": nil})
	assert.Contains(t, endOr, bson.M{"end_date": bson.M{"$gte": now}})
	assert.Contains(t, endOr, bson.M{"end_date": bson.M{"$exists": false}})
}

func TestBannerSortOrder(t *testing.T) {
	require.Len(t, bannerSort, 2)
	assert.Equal(t, "order", bannerSort[0].Key)
	assert.Equal(t, 1, bannerSort[0].Value, "order ascending")
	assert.Equal(t, "created_at", bannerSort[1].Key)
	assert.Equal(t, -1, bannerSort[1].Value, "newest first on order ties")
}
