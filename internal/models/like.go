package models

import "gorm.io/gorm"

// Like marks that a user liked a comment. The unique index guarantees a user
// can like a comment at most once; like counts are always derived by COUNT.
type Like struct {
	gorm.Model

	UserID    uint `gorm:"not null;uniqueIndex:idx_user_comment"`
	CommentID uint `gorm:"not null;uniqueIndex:idx_user_comment;index"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comment Comment `gorm:"foreignKey:CommentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
