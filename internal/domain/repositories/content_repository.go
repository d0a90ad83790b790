package repositories

import (
	"context"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
)

// PostFilters contém filtros para listagem de posts
type PostFilters struct {
	AuthorID *string
	Page     Page
}

// PostRepository define a persistência de publicações.
// Find* retorna (nil, nil) quando não encontra.
type PostRepository interface {
	Create(ctx context.Context, post *entities.Post) error
	FindByID(ctx context.Context, id string) (*entities.Post, error)
	Update(ctx context.Context, post *entities.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters PostFilters) ([]*entities.Post, int64, error)
	Stats(ctx context.Context, postIDs []string, viewerID string) (map[string]entities.PostStats, error)
}

// CommentRepository define a persistência de comentários
type CommentRepository interface {
	Create(ctx context.Context, comment *entities.Comment) error
	FindByID(ctx context.Context, id string) (*entities.Comment, error)
	Delete(ctx context.Context, id string) error
	ListTopLevel(ctx context.Context, postID string, page Page) ([]*entities.Comment, int64, error)
	ListByParents(ctx context.Context, parentIDs []string) ([]*entities.Comment, error)
	Stats(ctx context.Context, commentIDs []string, viewerID string) (map[string]entities.CommentStats, error)
}

// LikeRepository define a persistência de curtidas (post e comentário)
type LikeRepository interface {
	Find(ctx context.Context, authorID, targetID string, kind entities.ResourceKind) (*entities.Like, error)
	Create(ctx context.Context, like *entities.Like) error
	Delete(ctx context.Context, like *entities.Like) error
	ListByTarget(ctx context.Context, targetID string, kind entities.ResourceKind, page Page) ([]*entities.Like, int64, error)
}

// SavedCollectionRepository define a persistência das coleções de posts salvos
type SavedCollectionRepository interface {
	FindByName(ctx context.Context, userID, name string) (*entities.SavedCollection, error)
	Create(ctx context.Context, collection *entities.SavedCollection) error
	AddPost(ctx context.Context, collectionID, postID string) error
	RemovePost(ctx context.Context, collectionID, postID string) error
	ListByUser(ctx context.Context, userID string) ([]*entities.SavedCollection, error)
}
