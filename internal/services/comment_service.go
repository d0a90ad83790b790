package services

import (
	"context"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
)

// DefaultMaxReplyDepth é a profundidade padrão da árvore de respostas,
// contando o comentário de topo como nível 1
const DefaultMaxReplyDepth = 3

// CommentNode é um comentário com suas respostas até a profundidade máxima
type CommentNode struct {
	Comment *entities.Comment
	Stats   entities.CommentStats
	Replies []*CommentNode
}

// CommentService contém a lógica de negócio para comentários
type CommentService struct {
	comments   repositories.CommentRepository
	posts      repositories.PostRepository
	authorizer *Authorizer
	activity   ports.ActivityPublisher
	maxDepth   int
	logger     ports.Logger
}

// NewCommentService cria um novo CommentService
func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	authorizer *Authorizer,
	activity ports.ActivityPublisher,
	maxDepth int,
	logger ports.Logger,
) *CommentService {
	if maxDepth < 1 {
		maxDepth = DefaultMaxReplyDepth
	}
	return &CommentService{
		comments:   comments,
		posts:      posts,
		authorizer: authorizer,
		activity:   activity,
		maxDepth:   maxDepth,
		logger:     logger,
	}
}

// ListTree lista os comentários de topo de uma publicação e monta as
// respostas nível a nível, sem recursão, até maxDepth
func (s *CommentService) ListTree(ctx context.Context, postID string, page repositories.Page, viewerID string) ([]*CommentNode, int64, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, 0, err
	}

	top, total, err := s.comments.ListTopLevel(ctx, postID, page.Normalize())
	if err != nil {
		return nil, 0, err
	}

	roots := make([]*CommentNode, len(top))
	index := make(map[string]*CommentNode, len(top))
	level := make([]string, len(top))
	for i, c := range top {
		roots[i] = &CommentNode{Comment: c, Replies: []*CommentNode{}}
		index[c.ID] = roots[i]
		level[i] = c.ID
	}

	for depth := 2; depth <= s.maxDepth && len(level) > 0; depth++ {
		children, err := s.comments.ListByParents(ctx, level)
		if err != nil {
			return nil, 0, err
		}

		next := make([]string, 0, len(children))
		for _, c := range children {
			parent, ok := index[*c.ParentID]
			if !ok {
				continue
			}
			node := &CommentNode{Comment: c, Replies: []*CommentNode{}}
			parent.Replies = append(parent.Replies, node)
			index[c.ID] = node
			next = append(next, c.ID)
		}
		level = next
	}

	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	stats, err := s.comments.Stats(ctx, ids, viewerID)
	if err != nil {
		return nil, 0, err
	}
	for id, node := range index {
		node.Stats = stats[id]
	}

	return roots, total, nil
}

// Create comenta uma publicação, opcionalmente respondendo outro comentário
func (s *CommentService) Create(ctx context.Context, actor *entities.User, postID, text string, parentID *string) (*CommentNode, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domainerrors.ErrPostNotFound
	}

	if parentID != nil && *parentID != "" {
		parent, err := s.comments.FindByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domainerrors.ErrCommentNotFound
		}
		if parent.PostID != postID {
			return nil, domainerrors.ErrParentPostMismatch
		}
	} else {
		parentID = nil
	}

	comment, err := entities.NewComment(actor.ID, postID, text, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = actor

	if post.AuthorID != actor.ID {
		s.activity.Publish(ctx, ports.Activity{
			Type:        ports.ActivityCommentCreated,
			RecipientID: post.AuthorID,
			ActorID:     actor.ID,
			PostID:      postID,
			CommentID:   comment.ID,
			CreatedAt:   time.Now().UTC(),
		})
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "post_id", postID)
	return &CommentNode{Comment: comment, Replies: []*CommentNode{}}, nil
}

// Delete remove um comentário e suas respostas; autor ou staff
func (s *CommentService) Delete(ctx context.Context, actor *entities.User, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return domainerrors.ErrCommentNotFound
	}
	if err := s.authorizer.Authorize(actor, ActionDelete, comment); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("comment deleted", "comment_id", id, "actor_id", actor.ID)
	return nil
}

func (s *CommentService) ensurePost(ctx context.Context, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return domainerrors.ErrPostNotFound
	}
	return nil
}
