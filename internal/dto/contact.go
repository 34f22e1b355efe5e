package dto

import "time"

type CreateContactRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=50"`
	SecondName string `json:"secondname" binding:"omitempty,max=50"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	BirthDate  Date   `json:"birth_date" binding:"required"`
	Note       string `json:"note" binding:"omitempty,max=500"`
}

// UpdateContactRequest carries optional fields, nil means leave unchanged
type UpdateContactRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=50"`
	SecondName *string `json:"secondname" binding:"omitempty,max=50"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	BirthDate  *Date   `json:"birth_date" binding:"omitempty"`
	Note       *string `json:"note" binding:"omitempty,max=500"`
}

type ContactFilter struct {
	Limit      int    `form:"limit,default=10" binding:"omitempty,gte=10,lte=500"`
	Offset     int    `form:"offset,default=0" binding:"omitempty,gte=0"`
	Name       string `form:"name"`
	SecondName string `form:"secondname"`
	Email      string `form:"email"`
}

type ContactResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	SecondName string    `json:"secondname"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	BirthDate  Date      `json:"birth_date"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
