package postgres

import "time"

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	Email        *string    `gorm:"type:varchar(50);uniqueIndex"`
	PhoneNumber  *string    `gorm:"type:varchar(20);uniqueIndex"`
	FirstName    string     `gorm:"type:varchar(150)"`
	LastName     string     `gorm:"type:varchar(150)"`
	Bio          string     `gorm:"type:text"`
	Gender       *string    `gorm:"type:varchar(10)"`
	Photo        *string    `gorm:"type:varchar(500)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"column:user_role;type:varchar(20);not null;index"`
	AuthType     string     `gorm:"type:varchar(10);not null"`
	AuthStatus   string     `gorm:"type:varchar(20);not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// VerificationCodeModel guarda o código atual de cada usuário (um por usuário)
type VerificationCodeModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;uniqueIndex;not null"`
	User           UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Code           string    `gorm:"type:varchar(4);not null"`
	Channel        string    `gorm:"column:verify_type;type:varchar(10);not null"`
	ExpirationTime time.Time `gorm:"not null"`
	Confirmed      bool      `gorm:"column:is_confirmed;not null;default:false"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (VerificationCodeModel) TableName() string {
	return "verification_codes"
}

// PostModel é o model GORM para publicações
type PostModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	AuthorID  string    `gorm:"type:uuid;not null;index"`
	Author    UserModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Image     string    `gorm:"type:varchar(500);not null"`
	Caption   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PostModel) TableName() string {
	return "posts"
}

// CommentModel é o model GORM para comentários e respostas
type CommentModel struct {
	ID        string        `gorm:"type:uuid;primaryKey"`
	AuthorID  string        `gorm:"type:uuid;not null;index"`
	Author    UserModel     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    string        `gorm:"type:uuid;not null;index"`
	Post      *PostModel    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	ParentID  *string       `gorm:"type:uuid;index"`
	Parent    *CommentModel `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Text      string        `gorm:"column:comment;type:varchar(255);not null"`
	CreatedAt time.Time     `gorm:"not null;index"`
	UpdatedAt time.Time     `gorm:"not null"`
}

func (CommentModel) TableName() string {
	return "comments"
}

// PostLikeModel é uma curtida em publicação (única por autor e post)
type PostLikeModel struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	AuthorID  string     `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_author_post"`
	Author    UserModel  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    string     `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_author_post;index"`
	Post      *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (PostLikeModel) TableName() string {
	return "post_likes"
}

// CommentLikeModel é uma curtida em comentário (única por autor e comentário)
type CommentLikeModel struct {
	ID        string        `gorm:"type:uuid;primaryKey"`
	AuthorID  string        `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_author_comment"`
	Author    UserModel     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CommentID string        `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_author_comment;index"`
	Comment   *CommentModel `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"not null"`
}

func (CommentLikeModel) TableName() string {
	return "comment_likes"
}

// SavedCollectionModel é uma coleção nomeada de posts salvos
type SavedCollectionModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_saved_collections_user_name"`
	User      UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_saved_collections_user_name"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SavedCollectionModel) TableName() string {
	return "saved_collections"
}

// SavedCollectionPostModel liga coleções e posts
type SavedCollectionPostModel struct {
	CollectionID string                `gorm:"type:uuid;primaryKey"`
	Collection   *SavedCollectionModel `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
	PostID       string                `gorm:"type:uuid;primaryKey;index"`
	Post         *PostModel            `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"not null"`
}

func (SavedCollectionPostModel) TableName() string {
	return "saved_collection_posts"
}

// AllModels lista os models na ordem de criação das tabelas
func AllModels() []any {
	return []any{
		&UserModel{},
		&VerificationCodeModel{},
		&PostModel{},
		&CommentModel{},
		&PostLikeModel{},
		&CommentLikeModel{},
		&SavedCollectionModel{},
		&SavedCollectionPostModel{},
	}
}
