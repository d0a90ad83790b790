package services

import (
	"context"
	"fmt"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
)

// PostView é uma publicação com os contadores vistos por um leitor
type PostView struct {
	Post  *entities.Post
	Stats entities.PostStats
}

// PostService contém a lógica de negócio para publicações
type PostService struct {
	posts      repositories.PostRepository
	storage    ports.ObjectStorage
	authorizer *Authorizer
	logger     ports.Logger
}

// NewPostService cria um novo PostService
func NewPostService(
	posts repositories.PostRepository,
	storage ports.ObjectStorage,
	authorizer *Authorizer,
	logger ports.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		storage:    storage,
		authorizer: authorizer,
		logger:     logger,
	}
}

// List lista publicações (todas ou de um autor) com paginação offset/limit
func (s *PostService) List(ctx context.Context, filters repositories.PostFilters, viewerID string) ([]PostView, int64, error) {
	filters.Page = filters.Page.Normalize()

	posts, total, err := s.posts.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.withStats(ctx, posts, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Get busca uma publicação por ID
func (s *PostService) Get(ctx context.Context, id, viewerID string) (*PostView, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.withStats(ctx, []*entities.Post{post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create publica uma imagem com legenda
func (s *PostService) Create(ctx context.Context, author *entities.User, caption string, image PhotoUpload) (*PostView, error) {
	if err := entities.ValidateCaption(caption); err != nil {
		return nil, err
	}
	if image.Reader == nil || image.Filename == "" {
		return nil, domainerrors.ErrImageRequired
	}
	if err := valueobjects.CheckImageExtension(image.Filename, valueobjects.PostImageExtensions); err != nil {
		return nil, domainerrors.ErrUnsupportedImageType
	}

	url, err := s.storage.Upload(ctx, "post_images", image.Filename, image.Reader, image.Size, image.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload post image: %w", err)
	}

	post, err := entities.NewPost(author.ID, url, caption)
	if err == nil {
		err = s.posts.Create(ctx, post)
	}
	if err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.logger.Warn("orphaned upload", "url", url, "error", delErr)
		}
		return nil, err
	}
	post.Author = author

	s.logger.Info("post created", "post_id", post.ID, "author_id", author.ID)
	return &PostView{Post: post}, nil
}

// UpdateCaption altera a legenda; só o autor pode
func (s *PostService) UpdateCaption(ctx context.Context, actor *entities.User, id, caption string) (*PostView, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Authorize(actor, ActionUpdate, post); err != nil {
		return nil, err
	}
	if err := entities.ValidateCaption(caption); err != nil {
		return nil, err
	}

	post.Caption = caption
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	views, err := s.withStats(ctx, []*entities.Post{post}, actor.ID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete remove a publicação; autor ou staff
func (s *PostService) Delete(ctx context.Context, actor *entities.User, id string) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizer.Authorize(actor, ActionDelete, post); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted", "post_id", id, "actor_id", actor.ID)
	return nil
}

func (s *PostService) find(ctx context.Context, id string) (*entities.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domainerrors.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) withStats(ctx context.Context, posts []*entities.Post, viewerID string) ([]PostView, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	stats, err := s.posts.Stats(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p, Stats: stats[p.ID]}
	}
	return views, nil
}
