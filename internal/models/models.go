package models

import "time"

type Name struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36"            json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"          json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"          json:"email"`
	PasswordHash string    `gorm:"column:password;not null"      json:"-"`
	Name         Name      `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	TokenDigest  *string   `gorm:"column:token;size:64"          json:"-"`
	CreatedAt    time.Time `                                     json:"-"`
}

type CartEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"                           json:"-"`
	UserID    string `gorm:"uniqueIndex:idx_cart_user_product;size:36;not null" json:"-"`
	ProductID int64  `gorm:"uniqueIndex:idx_cart_user_product;not null"         json:"productId"`
	Quantity  int    `gorm:"not null;check:quantity > 0"                        json:"quantity"`
}

func (CartEntry) TableName() string {
	return "cart_entries"
}

type Product struct {
	ID    int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// CartItem is a cart entry joined with catalog metadata. The metadata
// pointers stay nil when the referenced product is missing from the catalog.
type CartItem struct {
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Title     *string  `json:"title"`
	Price     *float64 `json:"price"`
	Image     *string  `json:"image"`
}

func All() []any {
	return []any{&User{}, &Product{}, &CartEntry{}}
}
