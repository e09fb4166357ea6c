package models

type ContactRequest struct {
	FirstName *string `json:"firstName" db:"first_name"`
	LastName  *string `json:"lastName" db:"last_name"`
	Email     *string `json:"email" db:"email"`
	Title     *string `json:"title" db:"title"`
}

type Contact struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Title     string `json:"title" db:"title"`
}
