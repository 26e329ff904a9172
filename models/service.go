// models/service.go
package models

// Service is an entry of the servicing catalogue.
type Service struct {
	ID          string  `bson:"id" json:"id"`
	Title       string  `bson:"title" json:"title"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price"`
	Duration    int     `bson:"duration" json:"duration"` // minutes
	Active      bool    `bson:"active" json:"active"`
	SortOrder   int     `bson:"sort_order" json:"sortOrder"`
}
