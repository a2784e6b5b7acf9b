package model

import "time"

// Compliment 一条赞美
// LastRetrievedAt 只在被随机选中时前移，创建时等于 CreatedAt
type Compliment struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ReceiverID      string    `json:"receiver_id" gorm:"type:varchar(36);not null;index:idx_compliment_receiver_retrieved,priority:1"`
	Text            string    `json:"text" gorm:"type:varchar(255);not null"`
	LastRetrievedAt time.Time `json:"last_retrieved_at" gorm:"not null;index:idx_compliment_receiver_retrieved,priority:2"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Compliment) TableName() string { return "compliments" }
