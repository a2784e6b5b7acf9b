package model

import "time"

// Receiver 接收赞美的人，归属于某个用户
type Receiver struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string       `json:"user_id" gorm:"type:varchar(36);index:idx_receiver_user;not null"`
	Name        string       `json:"name" gorm:"type:varchar(255);not null"`
	Compliments []Compliment `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Receiver) TableName() string { return "receivers" }
