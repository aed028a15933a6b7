package mongo

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vitrinhq/vitrin/pkg/catalog"
	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/store/storetest"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017/shop", "shop"},
		{"mongodb://localhost:27017/shop?retryWrites=true", "shop"},
		{"mongodb://localhost:27017", DefaultDatabase},
		{"mongodb://localhost:27017/", DefaultDatabase},
		{"not a uri", DefaultDatabase},
	}
	for _, tt := range tests {
		if got := databaseName(tt.uri); got != tt.want {
			t.Errorf("databaseName(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestCatalogBSON(t *testing.T) {
	c := catalog.New("Yaz")
	c.LogoPosition = header.LogoFooterRight
	c.ShareSlug = ""

	data, err := bson.Marshal(c)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if doc["_id"] != c.ID {
		t.Errorf("_id = %v, want %q", doc["_id"], c.ID)
	}
	if doc["logo_position"] != "footer-right" {
		t.Errorf("logo_position = %v", doc["logo_position"])
	}
	if _, ok := doc["share_slug"]; ok {
		t.Error("empty share_slug must be omitted so the sparse unique index skips it")
	}
}

func TestStore(t *testing.T) {
	uri := os.Getenv("VITRIN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("VITRIN_TEST_MONGO_URI not set, skipping integration test")
	}
	storetest.Run(t, func(t *testing.T) catalog.Store {
		ctx := context.Background()
		s, err := Open(ctx, uri)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
			t.Fatalf("clear: %v", err)
		}
		return s
	})
}
