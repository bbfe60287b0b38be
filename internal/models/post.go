package models

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicateSlug = errors.New("a post with this slug already exists")
)

// Post is the canonical stored record. Storage engines keep their own row/document
// types and convert to this one on the way out.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostInput is a create request as submitted by a client.
type PostInput struct {
	Title     string `json:"title" form:"title" validate:"required"`
	Slug      string `json:"slug" form:"slug"`
	Content   string `json:"content" form:"content" validate:"required"`
	Excerpt   string `json:"excerpt" form:"excerpt"`
	Published bool   `json:"published" form:"published"`
}

// PostPatch is a partial update. Nil fields are left unchanged.
type PostPatch struct {
	Title     *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Slug      *string `json:"slug,omitempty"`
	Content   *string `json:"content,omitempty" validate:"omitnil,min=1"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Content == nil && p.Excerpt == nil && p.Published == nil
}
