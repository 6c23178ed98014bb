// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Banner is a hero banner on the home page.
type Banner struct {
	Ordered
	Title      string  `json:"title" validate:"required,max=200"`
	Subtitle   *string `json:"subtitle,omitempty" validate:"omitempty,max=500"`
	ImagePath  string  `json:"image_path" validate:"required,max=500"`
	LinkURL    *string `json:"link_url,omitempty" validate:"omitempty,max=500"`
	ButtonText *string `json:"button_text,omitempty" validate:"omitempty,max=60"`
}

// Slider is one slide of a rotating carousel.
type Slider struct {
	Ordered
	Title     string  `json:"title" validate:"required,max=200"`
	Caption   *string `json:"caption,omitempty" validate:"omitempty,max=500"`
	ImagePath string  `json:"image_path" validate:"required,max=500"`
	LinkURL   *string `json:"link_url,omitempty" validate:"omitempty,max=500"`
}

// Service is an offering of the company, publicly addressed by slug.
type Service struct {
	Ordered
	Name             string  `json:"name" validate:"required,max=200"`
	Slug             string  `json:"slug" validate:"omitempty,max=220,slug"`
	ShortDescription *string `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Description      string  `json:"description" validate:"max=20000"`
	IconPath         *string `json:"icon_path,omitempty" validate:"omitempty,max=500"`
	ImagePath        *string `json:"image_path,omitempty" validate:"omitempty,max=500"`
}

// Testimonial is a client quote with an optional star rating.
type Testimonial struct {
	Ordered
	ClientName string  `json:"client_name" validate:"required,max=120"`
	ClientRole *string `json:"client_role,omitempty" validate:"omitempty,max=120"`
	Company    *string `json:"company,omitempty" validate:"omitempty,max=120"`
	Quote      string  `json:"quote" validate:"required,max=2000"`
	AvatarPath *string `json:"avatar_path,omitempty" validate:"omitempty,max=500"`
	Rating     int     `json:"rating" validate:"min=0,max=5"`
}

// Portfolio is a showcased project.
type Portfolio struct {
	Ordered
	Title       string  `json:"title" validate:"required,max=200"`
	Client      *string `json:"client,omitempty" validate:"omitempty,max=120"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=120"`
	Description string  `json:"description" validate:"max=20000"`
	ImagePath   string  `json:"image_path" validate:"required,max=500"`
	ProjectURL  *string `json:"project_url,omitempty" validate:"omitempty,max=500,url"`
}

// TeamMember is a person shown on the about page.
type TeamMember struct {
	Ordered
	Name        string  `json:"name" validate:"required,max=120"`
	Role        string  `json:"role" validate:"required,max=120"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	PhotoPath   *string `json:"photo_path,omitempty" validate:"omitempty,max=500"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	LinkedInURL *string `json:"linkedin_url,omitempty" validate:"omitempty,max=500"`
	TwitterURL  *string `json:"twitter_url,omitempty" validate:"omitempty,max=500"`
}

// FAQ is a question and answer pair.
type FAQ struct {
	Ordered
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=10000"`
}
