package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Creator struct {
	Email string `json:"email"`
}

type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CreatedBy   *Creator `json:"createdBy,omitempty"`
}

// ProductFields is the writable part of a product sent on create and update.
type ProductFields struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type CartLine struct {
	Product         Product
	Quantity        int
	ServerConfirmed bool
}

func (l CartLine) Total() float64 {
	return l.Product.Price * float64(l.Quantity)
}

type OrderSnapshot struct {
	Lines    []CartLine
	PlacedAt time.Time
}

func (o OrderSnapshot) Total() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.Total()
	}
	return sum
}

// Session is the zero value when nobody is logged in.
type Session struct {
	Token string
	Role  Role
}

func (s Session) Authenticated() bool { return s.Token != "" }

// LocalStorage is the persisted key/value table behind the session store.
type LocalStorage struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LocalStorage) TableName() string {
	return "local_storage"
}
