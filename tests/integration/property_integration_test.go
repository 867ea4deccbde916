package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	mongoRepo "github.com/homenest/property-service/internal/adapter/repository/mongodb"
	"github.com/homenest/property-service/internal/domain"
	platformLogger "github.com/homenest/property-service/internal/platform/logger"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	testDBClient         *mongo.Client
	testPropertyRepo     *mongoRepo.PropertyRepository
	testNotificationRepo *mongoRepo.NotificationRepository
	testLogger           *platformLogger.Logger
)

const testDBName = "test_homenest_db"

// TestMain spins up a MongoDB container. Set INTEGRATION_TESTS=1 to run;
// without it the package is a no-op so unit runs stay Docker-free.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		log.Println("skipping integration tests: INTEGRATION_TESTS not set")
		os.Exit(0)
	}

	testLogger = platformLogger.NewLogger()

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	mongoResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	mongoURI := fmt.Sprintf("mongodb://root:password@%s/%s?authSource=admin", mongoResource.GetHostPort("27017/tcp"), testDBName)

	if err := pool.Retry(func() error {
		var errRetry error
		testDBClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if errRetry != nil {
			return errRetry
		}
		return testDBClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	db := testDBClient.Database(testDBName)
	testPropertyRepo = mongoRepo.NewPropertyRepository(db, testLogger)
	testNotificationRepo = mongoRepo.NewNotificationRepository(db, testLogger)

	code := m.Run()

	if err := pool.Purge(mongoResource); err != nil {
		log.Fatalf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	for _, name := range []string{"properties", "notifications"} {
		_, err := testDBClient.Database(testDBName).Collection(name).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err, "Failed to clear %s collection", name)
	}
}

func seedProperty(t *testing.T, name, category, ownerEmail string, price float64) *domain.Property {
	t.Helper()
	priceCopy := price
	p, err := domain.NewProperty(domain.CreatePropertyInput{
		Name:       name,
		Location:   "Test City",
		Price:      &priceCopy,
		Category:   category,
		OwnerEmail: ownerEmail,
		ImageURL:   "https://img.example/" + name + ".jpg",
	}, time.Now())
	require.NoError(t, err)

	id, err := testPropertyRepo.Create(context.Background(), p)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	p.ID = id
	return p
}

func TestCreateAndFindProperty(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	created := seedProperty(t, "Seaside Flat", "apartment", "owner@example.com", 1200)

	fetched, err := testPropertyRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seaside Flat", fetched.Name)
	assert.Equal(t, "apartment", fetched.Category)
	assert.Equal(t, 1200.0, fetched.Price)
	assert.NotNil(t, fetched.Reviews)
	assert.Empty(t, fetched.Reviews)
	assert.Zero(t, fetched.Rating)
}

func TestFindByID_NotFound(t *testing.T) {
	clearCollections(t)
	_, err := testPropertyRepo.FindByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByFilter_SearchCategoryAndSort(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	seedProperty(t, "Cheap Cottage", "house", "a@example.com", 500)
	seedProperty(t, "Grand Cottage", "house", "a@example.com", 2500)
	seedProperty(t, "City Studio", "apartment", "b@example.com", 900)

	query := domain.ListQuery{Search: "cottage", Category: "house", SortBy: domain.SortPriceAsc}.Normalize()
	properties, total, err := testPropertyRepo.FindByFilter(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, properties, 2)
	assert.Equal(t, "Cheap Cottage", properties[0].Name)
	assert.Equal(t, "Grand Cottage", properties[1].Name)

	// case-insensitive match on name
	query = domain.ListQuery{Search: "COTTAGE"}.Normalize()
	_, total, err = testPropertyRepo.FindByFilter(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestFindByFilter_Pagination(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		seedProperty(t, fmt.Sprintf("House %02d", i), "house", "a@example.com", float64(100*(i+1)))
	}

	query := domain.ListQuery{Page: 2, Limit: 8}.Normalize()
	properties, total, err := testPropertyRepo.FindByFilter(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Len(t, properties, 2)
}

func TestFindLatest_NewestFirst(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		seedProperty(t, fmt.Sprintf("Listing %d", i), "other", "a@example.com", 100)
	}

	latest, err := testPropertyRepo.FindLatest(ctx, 6)
	require.NoError(t, err)
	require.Len(t, latest, 6)
	assert.Equal(t, "Listing 7", latest[0].Name)
	assert.Equal(t, "Listing 2", latest[5].Name)
}

func TestUpdateFields_PartialUpdate(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	created := seedProperty(t, "Old Name", "house", "a@example.com", 1000)

	modified, err := testPropertyRepo.UpdateFields(ctx, created.ID, map[string]interface{}{
		"name":  "New Name",
		"price": 1500.0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	fetched, err := testPropertyRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", fetched.Name)
	assert.Equal(t, 1500.0, fetched.Price)
	assert.Equal(t, "house", fetched.Category)
	assert.Equal(t, "a@example.com", fetched.OwnerEmail)
}

func TestUpdateFields_NotFound(t *testing.T) {
	clearCollections(t)
	_, err := testPropertyRepo.UpdateFields(context.Background(), primitive.NewObjectID().Hex(), map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProperty(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	created := seedProperty(t, "Doomed", "house", "a@example.com", 100)
	require.NoError(t, testPropertyRepo.Delete(ctx, created.ID))

	_, err := testPropertyRepo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = testPropertyRepo.Delete(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPushReviewAndSetRating(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	created := seedProperty(t, "Reviewed Flat", "apartment", "a@example.com", 800)

	review := &domain.Review{
		ReviewerName: "Bob",
		Rating:       4,
		ReviewText:   "solid place",
		UserEmail:    "bob@example.com",
		DateAdded:    time.Now().UTC(),
	}
	require.NoError(t, testPropertyRepo.PushReview(ctx, created.ID, review))
	assert.NotEmpty(t, review.ID)

	require.NoError(t, testPropertyRepo.SetRating(ctx, created.ID, 4))

	fetched, err := testPropertyRepo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Reviews, 1)
	assert.Equal(t, "Bob", fetched.Reviews[0].ReviewerName)
	assert.Equal(t, 4.0, fetched.Rating)

	err = testPropertyRepo.PushReview(ctx, primitive.NewObjectID().Hex(), review)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByOwnerAndReviewedBy(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	mine := seedProperty(t, "Mine", "house", "me@example.com", 100)
	other := seedProperty(t, "Theirs", "house", "them@example.com", 100)

	owned, err := testPropertyRepo.FindByOwner(ctx, "me@example.com")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, mine.ID, owned[0].ID)

	review := &domain.Review{ReviewerName: "Me", Rating: 5, ReviewText: "nice", UserEmail: "me@example.com", DateAdded: time.Now().UTC()}
	require.NoError(t, testPropertyRepo.PushReview(ctx, other.ID, review))

	reviewed, err := testPropertyRepo.FindReviewedBy(ctx, "me@example.com")
	require.NoError(t, err)
	require.Len(t, reviewed, 1)
	assert.Equal(t, other.ID, reviewed[0].ID)
}

func TestRepairMissingReviews(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	// legacy document without reviews or rating
	coll := testDBClient.Database(testDBName).Collection("properties")
	_, err := coll.InsertOne(ctx, bson.M{
		"name":       "Legacy",
		"location":   "Old Town",
		"price":      300.0,
		"ownerEmail": "legacy@example.com",
	})
	require.NoError(t, err)

	seedProperty(t, "Modern", "house", "a@example.com", 100)

	repaired, err := testPropertyRepo.RepairMissingReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	repaired, err = testPropertyRepo.RepairMissingReviews(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestCounts(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	a := seedProperty(t, "A", "house", "a@example.com", 100)
	seedProperty(t, "B", "house", "a@example.com", 100)

	for i := 0; i < 3; i++ {
		review := &domain.Review{ReviewerName: "R", Rating: 3, ReviewText: "ok", UserEmail: fmt.Sprintf("r%d@example.com", i), DateAdded: time.Now().UTC()}
		require.NoError(t, testPropertyRepo.PushReview(ctx, a.ID, review))
	}

	totalProperties, err := testPropertyRepo.CountProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totalProperties)

	totalReviews, err := testPropertyRepo.CountReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totalReviews)
}

func TestNotificationLifecycle(t *testing.T) {
	clearCollections(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	var lastID string
	for i := 0; i < 3; i++ {
		n, err := domain.NewNotification("user@example.com", fmt.Sprintf("message %d", i), "", "", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		lastID, err = testNotificationRepo.Create(ctx, n)
		require.NoError(t, err)
	}
	other, err := domain.NewNotification("other@example.com", "not yours", "", "", time.Now())
	require.NoError(t, err)
	_, err = testNotificationRepo.Create(ctx, other)
	require.NoError(t, err)

	list, err := testNotificationRepo.FindByRecipient(ctx, "user@example.com", 50)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "message 2", list[0].Message)
	assert.False(t, list[0].Read)
	assert.Equal(t, domain.DefaultNotificationType, list[0].Type)

	modified, err := testNotificationRepo.MarkRead(ctx, lastID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	modified, err = testNotificationRepo.MarkAllRead(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	deleted, err := testNotificationRepo.Delete(ctx, lastID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = testNotificationRepo.DeleteByRecipient(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	list, err = testNotificationRepo.FindByRecipient(ctx, "user@example.com", 50)
	require.NoError(t, err)
	assert.Empty(t, list)
}
