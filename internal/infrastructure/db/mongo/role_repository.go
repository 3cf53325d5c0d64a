package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/accessdesk/user-directory/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const rolesCollection = "roles"

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	Name string `bson:"_id"`
}

func (r *MongoRoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRole
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	out := make([]domain.Role, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Role{Name: d.Name})
	}
	return out, nil
}

func (r *MongoRoleRepository) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var doc mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role %s: %w", name, err)
	}
	return &domain.Role{Name: doc.Name}, nil
}

// PutRole is idempotent: seeding the same name twice leaves one document.
func (r *MongoRoleRepository) PutRole(ctx context.Context, role domain.Role) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": role.Name},
		bson.M{"$setOnInsert": bson.M{"_id": role.Name}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put role %s: %w", role.Name, err)
	}
	return nil
}
