package viewmodel

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Layout is the data shared by every rendered page.
type Layout struct {
	Title       string
	Page        string
	IsLoggedIn  bool
	Email       string
	Plan        string
	Msg         fiber.Map
	Year        int
	OGViewModel *OpenGraph
}

// OpenGraph holds the social preview tags of a page.
type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
}

// NewLayout builds a layout with the current year filled in.
func NewLayout(title, page string) Layout {
	return Layout{Title: title, Page: page, Year: time.Now().Year()}
}
