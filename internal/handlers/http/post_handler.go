package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/dto"
	"github.com/RahimovIlhom/instagram-clone/internal/handlers/middleware"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// PostHandler lida com publicações, comentários, curtidas e coleções
type PostHandler struct {
	posts          *services.PostService
	comments       *services.CommentService
	likes          *services.LikeService
	saves          *services.SaveService
	maxUploadBytes int64
}

// NewPostHandler cria um novo PostHandler
func NewPostHandler(
	posts *services.PostService,
	comments *services.CommentService,
	likes *services.LikeService,
	saves *services.SaveService,
	maxUploadBytes int64,
) *PostHandler {
	return &PostHandler{
		posts:          posts,
		comments:       comments,
		likes:          likes,
		saves:          saves,
		maxUploadBytes: maxUploadBytes,
	}
}

// ListPosts godoc
// @Summary      Lista publicações (mais recentes primeiro)
// @Tags         posts
// @Produce      json
// @Param        limit  query int false "Limite (padrão 20, máx 100)"
// @Param        offset query int false "Deslocamento"
// @Success      200 {object} dto.ListResponse[dto.PostResponse]
// @Router       /posts/list [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	h.list(c, nil)
}

// ListMyPosts godoc
// @Summary      Lista as publicações do usuário autenticado
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Limite"
// @Param        offset query int false "Deslocamento"
// @Success      200 {object} dto.ListResponse[dto.PostResponse]
// @Router       /posts/list/me [get]
func (h *PostHandler) ListMyPosts(c *gin.Context) {
	authorID := middleware.ViewerID(c)
	h.list(c, &authorID)
}

func (h *PostHandler) list(c *gin.Context, authorID *string) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.WriteBindingError(c, err)
		return
	}
	page := query.ToPage()

	views, total, err := h.posts.List(c.Request.Context(), repositories.PostFilters{AuthorID: authorID, Page: page}, middleware.ViewerID(c))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToPostResponses(views), total, page))
}

// CreatePost godoc
// @Summary      Publica uma imagem com legenda
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image   formData file   true  "Imagem (jpg, jpeg, png)"
// @Param        caption formData string false "Legenda"
// @Success      201 {object} dto.PostResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /posts/create [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	image, closer, err := openUpload(c, "image", h.maxUploadBytes)
	if err != nil {
		dto.WriteError(c, err)
		return
	}
	defer closer.Close() //nolint:errcheck

	view, err := h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), c.PostForm("caption"), image)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostResponse(*view))
}

// GetPost godoc
// @Summary      Busca uma publicação
// @Tags         posts
// @Produce      json
// @Param        id path string true "ID da publicação"
// @Success      200 {object} dto.PostResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	view, err := h.posts.Get(c.Request.Context(), c.Param("id"), middleware.ViewerID(c))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(*view))
}

// UpdatePost godoc
// @Summary      Altera a legenda (somente o autor)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "ID da publicação"
// @Param        request body dto.UpdatePostRequest true "Legenda"
// @Success      200 {object} dto.PostResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	view, err := h.posts.UpdateCaption(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Caption)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(*view))
}

// DeletePost godoc
// @Summary      Remove a publicação (autor, admin ou manager)
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da publicação"
// @Success      200 {object} dto.MessageResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(c, "message.post_deleted"))
}

// ListComments godoc
// @Summary      Comentários de primeiro nível com respostas em árvore
// @Tags         comments
// @Produce      json
// @Param        id     path  string true  "ID da publicação"
// @Param        limit  query int    false "Limite"
// @Param        offset query int    false "Deslocamento"
// @Success      200 {object} dto.ListResponse[dto.CommentResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.WriteBindingError(c, err)
		return
	}
	page := query.ToPage()

	nodes, total, err := h.comments.ListTree(c.Request.Context(), c.Param("id"), page, middleware.ViewerID(c))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToCommentResponses(nodes), total, page))
}

// CreateComment godoc
// @Summary      Comenta ou responde um comentário
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "ID da publicação"
// @Param        request body dto.CreateCommentRequest true "Comentário"
// @Success      201 {object} dto.CommentResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id}/comments/create [post]
func (h *PostHandler) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.WriteBindingError(c, err)
		return
	}

	node, err := h.comments.Create(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Comment, req.Parent)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentResponses([]*services.CommentNode{node})[0])
}

// DeleteComment godoc
// @Summary      Remove o comentário e suas respostas (autor, admin ou manager)
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID do comentário"
// @Success      200 {object} dto.MessageResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/comments/{id} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(c, "message.comment_deleted"))
}

// ListLikes godoc
// @Summary      Quem curtiu a publicação
// @Tags         likes
// @Produce      json
// @Param        id     path  string true  "ID da publicação"
// @Param        limit  query int    false "Limite"
// @Param        offset query int    false "Deslocamento"
// @Success      200 {object} dto.ListResponse[dto.LikeResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id}/likes [get]
func (h *PostHandler) ListLikes(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		dto.WriteBindingError(c, err)
		return
	}
	page := query.ToPage()

	likes, total, err := h.likes.ListPostLikes(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToLikeResponses(likes), total, page))
}

// TogglePostLike godoc
// @Summary      Curte ou descurte a publicação
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID da publicação"
// @Success      200 {object} dto.ToggleResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id}/likes/like [post]
func (h *PostHandler) TogglePostLike(c *gin.Context) {
	liked, err := h.likes.TogglePostLike(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, likeResponse(c, liked))
}

// ToggleCommentLike godoc
// @Summary      Curte ou descurte o comentário
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID do comentário"
// @Success      200 {object} dto.ToggleResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/comments/{id}/like [post]
func (h *PostHandler) ToggleCommentLike(c *gin.Context) {
	liked, err := h.likes.ToggleCommentLike(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, likeResponse(c, liked))
}

// ToggleSave godoc
// @Summary      Salva ou remove a publicação de uma coleção
// @Tags         saved
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string          true  "ID da publicação"
// @Param        request body dto.SaveRequest false "Coleção (padrão: saved)"
// @Success      200 {object} dto.ToggleResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /posts/{id}/save [post]
func (h *PostHandler) ToggleSave(c *gin.Context) {
	var req dto.SaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.WriteBindingError(c, err)
			return
		}
	}

	saved, err := h.saves.ToggleSave(c.Request.Context(), middleware.ViewerID(c), c.Param("id"), req.Name)
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	key := "message.post_unsaved"
	if saved {
		key = "message.post_saved"
	}
	c.JSON(http.StatusOK, dto.ToggleResponse{Success: true, Message: dto.T(c, key), Active: saved})
}

// ListSaved godoc
// @Summary      Coleções de publicações salvas
// @Tags         saved
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CollectionList
// @Router       /posts/saved [get]
func (h *PostHandler) ListSaved(c *gin.Context) {
	collections, err := h.saves.ListCollections(c.Request.Context(), middleware.ViewerID(c))
	if err != nil {
		dto.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CollectionList{
		Success: true,
		Results: dto.ToCollectionResponses(collections),
	})
}

func likeResponse(c *gin.Context, liked bool) dto.ToggleResponse {
	key := "message.like_removed"
	if liked {
		key = "message.like_added"
	}
	return dto.ToggleResponse{Success: true, Message: dto.T(c, key), Active: liked}
}
