package model

import (
	"time"

	"gorm.io/gorm"
)

type Contact struct {
	gorm.Model
	UserID     uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	SecondName string    `gorm:"column:secondname" json:"secondname"`
	Email      string    `gorm:"column:email" json:"email"`
	Phone      string    `gorm:"column:phone" json:"phone"`
	BirthDate  time.Time `gorm:"column:birth_date;type:date" json:"birth_date"`
	Note       string    `gorm:"column:note" json:"note"`
}
