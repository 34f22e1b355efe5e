package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string  `gorm:"column:username;not null" json:"username"`
	Email        string  `gorm:"column:email;unique;not null" json:"email"`
	Password     string  `gorm:"column:password;not null" json:"-"`
	Confirmed    bool    `gorm:"column:confirmed;default:false;not null" json:"confirmed"`
	Avatar       *string `gorm:"column:avatar" json:"avatar"`
	RefreshToken *string `gorm:"column:refresh_token" json:"-"`
}
