package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"    json:"id"`
	Username     string `gorm:"uniqueIndex;not null"        json:"username"`
	PasswordHash string `gorm:"not null"                   json:"-"`
}

// Note is the notes row. Tags holds a JSON array of strings.
type Note struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:100;not null"        json:"title"`
	Content   string    `gorm:"type:text;not null"       json:"content"`
	Tags      string    `gorm:"type:text;default:'[]'"   json:"tags"`
	CreatedAt time.Time `gorm:"index"                    json:"created_at"`
}
