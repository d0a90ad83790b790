package ports

import (
	"context"
	"time"
)

// ActivityType identifica um evento de atividade social
type ActivityType string

const (
	ActivityPostLiked      ActivityType = "post_liked"
	ActivityCommentLiked   ActivityType = "comment_liked"
	ActivityCommentCreated ActivityType = "comment_created"
)

// Activity é entregue ao dono do conteúdo
type Activity struct {
	Type        ActivityType `json:"type"`
	RecipientID string       `json:"-"`
	ActorID     string       `json:"actor_id"`
	PostID      string       `json:"post_id"`
	CommentID   string       `json:"comment_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ActivityPublisher publica atividades sem bloquear o chamador
type ActivityPublisher interface {
	Publish(ctx context.Context, activity Activity)
}
