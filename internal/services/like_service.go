package services

import (
	"context"
	"errors"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// LikeService alterna curtidas em publicações e comentários
type LikeService struct {
	likes      repositories.LikeRepository
	posts      repositories.PostRepository
	comments   repositories.CommentRepository
	authorizer *Authorizer
	activity   ports.ActivityPublisher
	logger     ports.Logger
}

// NewLikeService cria um novo LikeService
func NewLikeService(
	likes repositories.LikeRepository,
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	authorizer *Authorizer,
	activity ports.ActivityPublisher,
	logger ports.Logger,
) *LikeService {
	return &LikeService{
		likes:      likes,
		posts:      posts,
		comments:   comments,
		authorizer: authorizer,
		activity:   activity,
		logger:     logger,
	}
}

// TogglePostLike curte ou descurte uma publicação. Retorna o novo estado.
func (s *LikeService) TogglePostLike(ctx context.Context, actor *entities.User, postID string) (bool, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, domainerrors.ErrPostNotFound
	}

	liked, err := s.toggle(ctx, actor, postID, entities.ResourcePost)
	if err != nil {
		return false, err
	}
	if liked && post.AuthorID != actor.ID {
		s.activity.Publish(ctx, ports.Activity{
			Type:        ports.ActivityPostLiked,
			RecipientID: post.AuthorID,
			ActorID:     actor.ID,
			PostID:      postID,
			CreatedAt:   time.Now().UTC(),
		})
	}
	return liked, nil
}

// ToggleCommentLike curte ou descurte um comentário. Retorna o novo estado.
func (s *LikeService) ToggleCommentLike(ctx context.Context, actor *entities.User, commentID string) (bool, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return false, err
	}
	if comment == nil {
		return false, domainerrors.ErrCommentNotFound
	}

	liked, err := s.toggle(ctx, actor, commentID, entities.ResourceComment)
	if err != nil {
		return false, err
	}
	if liked && comment.AuthorID != actor.ID {
		s.activity.Publish(ctx, ports.Activity{
			Type:        ports.ActivityCommentLiked,
			RecipientID: comment.AuthorID,
			ActorID:     actor.ID,
			PostID:      comment.PostID,
			CommentID:   commentID,
			CreatedAt:   time.Now().UTC(),
		})
	}
	return liked, nil
}

func (s *LikeService) toggle(ctx context.Context, actor *entities.User, targetID string, kind entities.ResourceKind) (bool, error) {
	existing, err := s.likes.Find(ctx, actor.ID, targetID, kind)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.authorizer.Authorize(actor, ActionDelete, existing); err != nil {
			return false, err
		}
		if err := s.likes.Delete(ctx, existing); err != nil {
			return false, err
		}
		s.logger.Debug("like removed", "target_id", targetID, "kind", kind, "author_id", actor.ID)
		return false, nil
	}

	if err := s.likes.Create(ctx, entities.NewLike(actor.ID, targetID, kind)); err != nil {
		// requisição concorrente já curtiu
		if errors.Is(err, repositories.ErrDuplicate) {
			return true, nil
		}
		return false, err
	}
	s.logger.Debug("like added", "target_id", targetID, "kind", kind, "author_id", actor.ID)
	return true, nil
}

// ListPostLikes lista quem curtiu uma publicação
func (s *LikeService) ListPostLikes(ctx context.Context, postID string, page repositories.Page) ([]*entities.Like, int64, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	if post == nil {
		return nil, 0, domainerrors.ErrPostNotFound
	}
	return s.likes.ListByTarget(ctx, postID, entities.ResourcePost, page.Normalize())
}
