package entities

import "time"

// Genre is shared by every book tagged with it. Names are unique.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}

// Book is a physical copy offered for exchange by its owner.
type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"index;not null" json:"owner"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Author      string    `gorm:"index;size:255" json:"author"`
	Description string    `gorm:"type:text" json:"description"`
	Available   bool      `gorm:"index;not null" json:"available"` // no gorm default: false must persist
	Location    string    `gorm:"index;size:255" json:"location"`  // pickup location
	Condition   string    `gorm:"index;size:64" json:"condition"`
	Image       string    `gorm:"size:1024" json:"image"`
	Genres      []Genre   `gorm:"many2many:book_genres;" json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookInterest records that a user would like to receive a book.
// ChosenByOwner is flipped once, by the book's owner.
type BookInterest struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BookID           uint      `gorm:"not null;uniqueIndex:idx_book_interests_book_user" json:"book"`
	InterestedUserID uint      `gorm:"not null;index;uniqueIndex:idx_book_interests_book_user" json:"interested_user"`
	ChosenByOwner    bool      `gorm:"not null" json:"chosen_by_owner"`
	Book             *Book     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookInterest) TableName() string {
	return "book_interests"
}

// BookFilter narrows the public catalog. Empty fields are not applied.
type BookFilter struct {
	Author    string // exact
	Genre     string // case-insensitive substring of any genre name
	Condition string // exact
	Location  string // exact
}

// IsEmpty reports whether no predicate is set.
func (f BookFilter) IsEmpty() bool {
	return f.Author == "" && f.Genre == "" && f.Condition == "" && f.Location == ""
}
