package dto

import (
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// PageQuery lê limit/offset da query string
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// ToPage aplica os limites padrão
func (q PageQuery) ToPage() repositories.Page {
	return repositories.Page{Limit: q.Limit, Offset: q.Offset}.Normalize()
}

// ListResponse é o envelope paginado das listagens
type ListResponse[T any] struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Results []T   `json:"results"`
}

// NewListResponse monta o envelope paginado
func NewListResponse[T any](results []T, count int64, page repositories.Page) ListResponse[T] {
	if results == nil {
		results = []T{}
	}
	return ListResponse[T]{
		Success: true,
		Count:   count,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Results: results,
	}
}

// UpdatePostRequest altera a legenda de uma publicação
type UpdatePostRequest struct {
	Caption string `json:"caption" binding:"max=1000"`
}

// CreateCommentRequest cria um comentário ou resposta
type CreateCommentRequest struct {
	Comment string  `json:"comment" binding:"required,max=255"`
	Parent  *string `json:"parent" binding:"omitempty,uuid"`
}

// SaveRequest escolhe a coleção; vazio usa "saved"
type SaveRequest struct {
	Name string `json:"name" binding:"omitempty,max=64"`
}

// ToggleResponse informa o estado após alternar like/save
type ToggleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Active  bool   `json:"active"`
}

// AuthorResponse é o resumo do autor exibido junto ao conteúdo
type AuthorResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Photo    *string `json:"photo"`
	UserRole string  `json:"user_role"`
}

// PostResponse representa uma publicação
type PostResponse struct {
	ID               string         `json:"id"`
	Author           AuthorResponse `json:"author"`
	Image            string         `json:"image"`
	Caption          string         `json:"caption"`
	CreateTime       time.Time      `json:"create_time"`
	PostLikesCount   int64          `json:"post_likes_count"`
	PostCommentCount int64          `json:"post_comment_count"`
	MeLike           bool           `json:"me_like"`
	PostSavedCount   int64          `json:"post_saved_count"`
}

// CommentResponse representa um comentário e suas respostas
type CommentResponse struct {
	ID               string            `json:"id"`
	Author           AuthorResponse    `json:"author"`
	Comment          string            `json:"comment"`
	Parent           *string           `json:"parent"`
	CreateTime       time.Time         `json:"create_time"`
	CommentLikeCount int64             `json:"comment_like_count"`
	MeLike           bool              `json:"me_like"`
	Replies          []CommentResponse `json:"replies"`
}

// LikeResponse representa uma curtida
type LikeResponse struct {
	ID         string         `json:"id"`
	Author     AuthorResponse `json:"author"`
	CreateTime time.Time      `json:"create_time"`
}

// CollectionResponse representa uma coleção de posts salvos
type CollectionResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Posts      []string  `json:"posts"`
	CreateTime time.Time `json:"create_time"`
}

// CollectionList lista as coleções do usuário
type CollectionList struct {
	Success bool                 `json:"success"`
	Results []CollectionResponse `json:"results"`
}

// ToAuthorResponse resume o autor; sem usuário carregado devolve só o ID
func ToAuthorResponse(authorID string, user *entities.User) AuthorResponse {
	if user == nil {
		return AuthorResponse{ID: authorID}
	}
	return AuthorResponse{
		ID:       user.ID,
		Username: user.Username,
		Photo:    user.Photo,
		UserRole: string(user.Role),
	}
}

// ToPostResponse converte uma PostView
func ToPostResponse(view services.PostView) PostResponse {
	p := view.Post
	return PostResponse{
		ID:               p.ID,
		Author:           ToAuthorResponse(p.AuthorID, p.Author),
		Image:            p.Image,
		Caption:          p.Caption,
		CreateTime:       p.CreatedAt,
		PostLikesCount:   view.Stats.Likes,
		PostCommentCount: view.Stats.Comments,
		MeLike:           view.Stats.MeLike,
		PostSavedCount:   view.Stats.Saves,
	}
}

// ToPostResponses converte uma lista de PostView
func ToPostResponses(views []services.PostView) []PostResponse {
	responses := make([]PostResponse, len(views))
	for i, view := range views {
		responses[i] = ToPostResponse(view)
	}
	return responses
}

// ToCommentResponses converte a árvore de comentários sem recursão
func ToCommentResponses(nodes []*services.CommentNode) []CommentResponse {
	type frame struct {
		node *services.CommentNode
		out  *CommentResponse
	}

	responses := make([]CommentResponse, len(nodes))
	stack := make([]frame, 0, len(nodes))
	for i, n := range nodes {
		stack = append(stack, frame{node: n, out: &responses[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := f.node.Comment
		*f.out = CommentResponse{
			ID:               c.ID,
			Author:           ToAuthorResponse(c.AuthorID, c.Author),
			Comment:          c.Text,
			Parent:           c.ParentID,
			CreateTime:       c.CreatedAt,
			CommentLikeCount: f.node.Stats.Likes,
			MeLike:           f.node.Stats.MeLike,
			Replies:          make([]CommentResponse, len(f.node.Replies)),
		}
		for i, child := range f.node.Replies {
			stack = append(stack, frame{node: child, out: &f.out.Replies[i]})
		}
	}
	return responses
}

// ToLikeResponses converte uma lista de curtidas
func ToLikeResponses(likes []*entities.Like) []LikeResponse {
	responses := make([]LikeResponse, len(likes))
	for i, l := range likes {
		responses[i] = LikeResponse{
			ID:         l.ID,
			Author:     ToAuthorResponse(l.AuthorID, l.Author),
			CreateTime: l.CreatedAt,
		}
	}
	return responses
}

// ToCollectionResponses converte as coleções de um usuário
func ToCollectionResponses(collections []*entities.SavedCollection) []CollectionResponse {
	responses := make([]CollectionResponse, len(collections))
	for i, c := range collections {
		posts := c.PostIDs
		if posts == nil {
			posts = []string{}
		}
		responses[i] = CollectionResponse{
			ID:         c.ID,
			Name:       c.Name,
			Posts:      posts,
			CreateTime: c.CreatedAt,
		}
	}
	return responses
}
