package model

import "time"

// User 用户（邮箱唯一，通过 OAuth 登录创建）
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName *string    `json:"first_name" gorm:"type:varchar(255)"`
	LastName  *string    `json:"last_name" gorm:"type:varchar(255)"`
	Receivers []Receiver `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
