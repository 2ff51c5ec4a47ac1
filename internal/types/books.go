package types

// BookInput holds the fields a caller supplies when creating or editing a book.
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// Book is a record persisted by the catalog API. Id is assigned by the server.
type Book struct {
	Id int64 `json:"id"`
	BookInput
}
