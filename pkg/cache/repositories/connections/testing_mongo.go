package dbconnections

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CacheDBTestingConnection struct {
	testDBName string
	client     *mongo.Client
}

var _ CacheDBConnection = (*CacheDBTestingConnection)(nil)

// NewCacheDBTestingConnection connects to the database given by
// IMGPIPE_TEST_MONGO_CONNECTION_STRING and skips the test when it is not set.
func NewCacheDBTestingConnection(t *testing.T) *CacheDBTestingConnection {
	connectionString := os.Getenv("IMGPIPE_TEST_MONGO_CONNECTION_STRING")
	if connectionString == "" {
		t.Skip("IMGPIPE_TEST_MONGO_CONNECTION_STRING not set, skipping mongo integration test")
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(connectionString))
	if err != nil {
		t.Fatalf("cannot connect to mongodb: %v", err)
	}

	testDBName := generateTestDBName(t, client)
	conn := &CacheDBTestingConnection{testDBName, client}

	t.Cleanup(conn.Cleanup)
	return conn
}

func (c *CacheDBTestingConnection) Collection(name string) *mongo.Collection {
	return c.client.Database(c.testDBName).Collection(name)
}

func (c *CacheDBTestingConnection) Cleanup() {
	ctx := context.Background()
	if err := c.client.Database(c.testDBName).Drop(ctx); err != nil {
		panic("Cannot cleanup testing database '" + c.testDBName + "': " + err.Error())
	}
	c.client.Disconnect(ctx)
}

func generateTestDBName(t *testing.T, client *mongo.Client) string {
	databases, err := client.ListDatabaseNames(context.Background(), bson.M{})
	if err != nil {
		t.Fatalf("cannot fetch database names list: %v", err)
	}

	for i := 0; i < 10; i++ {
		id := "imgpipe-test-" + uuid.New().String()[:8]
		if !contains(databases, id) {
			return id
		}
	}

	t.Fatal("cannot generate unique test DB name")
	return ""
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
