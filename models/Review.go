package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	PGID     uint   `json:"pgID" gorm:"not null;index"`
	Username string `json:"username" gorm:"not null;index"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment  string `json:"comment" gorm:"type:text"`
}
