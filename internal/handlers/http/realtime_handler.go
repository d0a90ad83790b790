package http

import (
	"github.com/gin-gonic/gin"

	"github.com/RahimovIlhom/instagram-clone/internal/handlers/middleware"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/realtime"
)

// RealtimeHandler abre o canal websocket de atividades
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler cria um novo RealtimeHandler
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Connect godoc
// @Summary      Canal websocket de atividades (likes e comentários recebidos)
// @Tags         realtime
// @Param        token query string true "Access token"
// @Success      101
// @Failure      401 {object} dto.ErrorResponse
// @Router       /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	// Upgrade já responde o erro ao cliente
	_ = h.hub.Serve(c.Writer, c.Request, middleware.ViewerID(c))
}
