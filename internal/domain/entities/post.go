package entities

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

const (
	MaxCaptionLength = 1000
	MaxCommentLength = 255
)

// ResourceKind identifica o tipo de recurso para as regras de autorização
type ResourceKind string

const (
	ResourcePost        ResourceKind = "post"
	ResourceComment     ResourceKind = "comment"
	ResourcePostLike    ResourceKind = "post_like"
	ResourceCommentLike ResourceKind = "comment_like"
)

// OwnedResource é qualquer conteúdo que pertence a um usuário
type OwnedResource interface {
	OwnerID() string
	Kind() ResourceKind
}

// Post é uma publicação com imagem e legenda
type Post struct {
	ID        string
	AuthorID  string
	Author    *User
	Image     string
	Caption   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost cria uma publicação validada
func NewPost(authorID, image, caption string) (*Post, error) {
	if image == "" {
		return nil, domainerrors.ErrImageRequired
	}
	if err := ValidateCaption(caption); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Image:     image,
		Caption:   caption,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateCaption limita a legenda a MaxCaptionLength caracteres
func ValidateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return domainerrors.ErrCaptionTooLong
	}
	return nil
}

func (p *Post) OwnerID() string    { return p.AuthorID }
func (p *Post) Kind() ResourceKind { return ResourcePost }

// PostStats agrega contadores de uma publicação para um leitor
type PostStats struct {
	Likes    int64
	Comments int64
	Saves    int64
	MeLike   bool
}

// Comment é um comentário em uma publicação, opcionalmente resposta a outro
type Comment struct {
	ID        string
	AuthorID  string
	Author    *User
	PostID    string
	ParentID  *string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment cria um comentário validado
func NewComment(authorID, postID, text string, parentID *string) (*Comment, error) {
	if text == "" {
		return nil, domainerrors.ErrCommentEmpty
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, domainerrors.ErrCommentTooLong
	}
	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		PostID:    postID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Comment) OwnerID() string    { return c.AuthorID }
func (c *Comment) Kind() ResourceKind { return ResourceComment }

// CommentStats agrega contadores de um comentário para um leitor
type CommentStats struct {
	Likes  int64
	MeLike bool
}

// Like é uma curtida de um usuário em uma publicação ou comentário.
// Existe no máximo uma curtida por par (autor, alvo).
type Like struct {
	ID         string
	AuthorID   string
	Author     *User
	TargetID   string
	TargetKind ResourceKind
	CreatedAt  time.Time
}

// NewLike cria uma curtida; targetKind deve ser ResourcePost ou ResourceComment
func NewLike(authorID, targetID string, targetKind ResourceKind) *Like {
	return &Like{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		TargetID:   targetID,
		TargetKind: targetKind,
		CreatedAt:  time.Now().UTC(),
	}
}

func (l *Like) OwnerID() string { return l.AuthorID }

func (l *Like) Kind() ResourceKind {
	if l.TargetKind == ResourceComment {
		return ResourceCommentLike
	}
	return ResourcePostLike
}

// DefaultCollectionName é usado quando o usuário não informa uma coleção
const DefaultCollectionName = "saved"

// SavedCollection agrupa publicações salvas por um usuário
type SavedCollection struct {
	ID        string
	UserID    string
	Name      string
	PostIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSavedCollection cria uma coleção vazia
func NewSavedCollection(userID, name string) *SavedCollection {
	if name == "" {
		name = DefaultCollectionName
	}
	now := time.Now().UTC()
	return &SavedCollection{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
