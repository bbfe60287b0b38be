package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkblog/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ PostRepository = (*MongoPostRepository)(nil)

const postsCollection = "posts"

// postDocument is the BSON shape of a post in the posts collection.
type postDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Title     string        `bson:"title"`
	Slug      string        `bson:"slug"`
	Content   string        `bson:"content"`
	Excerpt   string        `bson:"excerpt,omitempty"`
	Published bool          `bson:"published"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *postDocument) toModel() models.Post {
	return models.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Slug:      d.Slug,
		Content:   d.Content,
		Excerpt:   d.Excerpt,
		Published: d.Published,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoPostRepository stores posts as documents in MongoDB.
type MongoPostRepository struct {
	coll *mongo.Collection
	opts repoOptions
}

func NewMongoPostRepository(db *mongo.Database, opts ...Option) *MongoPostRepository {
	return &MongoPostRepository{
		coll: db.Collection(postsCollection),
		opts: newOptions(opts),
	}
}

// EnsureIndexes creates the unique slug index that settles concurrent writes
// to the same slug, plus the index backing the published listing.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("published_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	posts, err := r.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) GetPublished(ctx context.Context) ([]models.Post, error) {
	posts, err := r.find(ctx, bson.D{{Key: "published", Value: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return withExcerpts(posts), nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.D) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(docs))
	for i := range docs {
		posts[i] = docs[i].toModel()
	}
	return posts, nil
}

func (r *MongoPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, models.ErrPostNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoPostRepository) findOne(ctx context.Context, filter bson.D) (*models.Post, error) {
	var doc postDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	post := doc.toModel()
	return &post, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	now := r.opts.stamp()
	doc := postDocument{
		ID:        bson.NewObjectID(),
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Excerpt:   post.Excerpt,
		Published: post.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, translateWriteError(err, "create")
	}

	created := doc.toModel()
	return &created, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, models.ErrPostNotFound
	}

	set := patchDocument(patch)
	set = append(set, bson.E{Key: "updatedAt", Value: r.opts.stamp()})

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrPostNotFound
	}
	if err != nil {
		return nil, translateWriteError(err, "update")
	}

	post := doc.toModel()
	return &post, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return models.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// patchDocument builds the $set body for the supplied patch fields.
func patchDocument(patch models.PostPatch) bson.D {
	set := bson.D{}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Slug != nil {
		set = append(set, bson.E{Key: "slug", Value: *patch.Slug})
	}
	if patch.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *patch.Content})
	}
	if patch.Excerpt != nil {
		set = append(set, bson.E{Key: "excerpt", Value: *patch.Excerpt})
	}
	if patch.Published != nil {
		set = append(set, bson.E{Key: "published", Value: *patch.Published})
	}
	return set
}

// translateWriteError maps the driver's duplicate key error (code 11000) to
// models.ErrDuplicateSlug; slug is the only unique key besides _id.
func translateWriteError(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateSlug
	}
	return fmt.Errorf("failed to %s post: %w", op, err)
}

func parseObjectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}
