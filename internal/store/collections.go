// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"time"

	"agencysite/internal/models"
)

// Concrete stores for each content collection.
type (
	BannerStore      = OrderedStore[models.Banner, *models.Banner]
	SliderStore      = OrderedStore[models.Slider, *models.Slider]
	ServiceStore     = OrderedStore[models.Service, *models.Service]
	TestimonialStore = OrderedStore[models.Testimonial, *models.Testimonial]
	PortfolioStore   = OrderedStore[models.Portfolio, *models.Portfolio]
	TeamMemberStore  = OrderedStore[models.TeamMember, *models.TeamMember]
	FAQStore         = OrderedStore[models.FAQ, *models.FAQ]
	BlogStore        = OrderedStore[models.Blog, *models.Blog]
)

var bannerTable = Table[models.Banner, *models.Banner]{
	Name:           "banners",
	Entity:         "banner",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"title", "subtitle", "image_path", "link_url", "button_text"},
	Fields: func(b *models.Banner) []any {
		return []any{&b.Title, &b.Subtitle, &b.ImagePath, &b.LinkURL, &b.ButtonText}
	},
}

var sliderTable = Table[models.Slider, *models.Slider]{
	Name:           "sliders",
	Entity:         "slider",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"title", "caption", "image_path", "link_url"},
	Fields: func(s *models.Slider) []any {
		return []any{&s.Title, &s.Caption, &s.ImagePath, &s.LinkURL}
	},
}

var serviceTable = Table[models.Service, *models.Service]{
	Name:           "services",
	Entity:         "service",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"name", "slug", "short_description", "description", "icon_path", "image_path"},
	Fields: func(s *models.Service) []any {
		return []any{&s.Name, &s.Slug, &s.ShortDescription, &s.Description, &s.IconPath, &s.ImagePath}
	},
	Slug: &SlugRule[models.Service, *models.Service]{
		Source: func(s *models.Service) string { return s.Name },
		Target: func(s *models.Service) *string { return &s.Slug },
	},
}

var testimonialTable = Table[models.Testimonial, *models.Testimonial]{
	Name:           "testimonials",
	Entity:         "testimonial",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"client_name", "client_role", "company", "quote", "avatar_path", "rating"},
	Fields: func(t *models.Testimonial) []any {
		return []any{&t.ClientName, &t.ClientRole, &t.Company, &t.Quote, &t.AvatarPath, &t.Rating}
	},
}

var portfolioTable = Table[models.Portfolio, *models.Portfolio]{
	Name:           "portfolios",
	Entity:         "portfolio",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"title", "client", "category", "description", "image_path", "project_url"},
	Fields: func(p *models.Portfolio) []any {
		return []any{&p.Title, &p.Client, &p.Category, &p.Description, &p.ImagePath, &p.ProjectURL}
	},
}

var teamMemberTable = Table[models.TeamMember, *models.TeamMember]{
	Name:           "team_members",
	Entity:         "team member",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"name", "role", "bio", "photo_path", "email", "linkedin_url", "twitter_url"},
	Fields: func(m *models.TeamMember) []any {
		return []any{&m.Name, &m.Role, &m.Bio, &m.PhotoPath, &m.Email, &m.LinkedInURL, &m.TwitterURL}
	},
}

var faqTable = Table[models.FAQ, *models.FAQ]{
	Name:           "faqs",
	Entity:         "faq",
	Flag:           "is_active",
	DefaultVisible: true,
	Columns:        []string{"question", "answer"},
	Fields: func(f *models.FAQ) []any {
		return []any{&f.Question, &f.Answer}
	},
}

// Blogs are drafts until published; published_at records the first publish.
var blogTable = Table[models.Blog, *models.Blog]{
	Name:           "blogs",
	Entity:         "blog",
	Flag:           "is_published",
	DefaultVisible: false,
	Columns:        []string{"title", "slug", "excerpt", "body", "cover_path", "author"},
	Fields: func(b *models.Blog) []any {
		return []any{&b.Title, &b.Slug, &b.Excerpt, &b.Body, &b.CoverPath, &b.Author}
	},
	Stamp:      "published_at",
	StampField: func(b *models.Blog) **time.Time { return &b.PublishedAt },
	Slug: &SlugRule[models.Blog, *models.Blog]{
		Source: func(b *models.Blog) string { return b.Title },
		Target: func(b *models.Blog) *string { return &b.Slug },
	},
}

// NewBannerStore creates a new BannerStore.
func NewBannerStore(db *sql.DB, opts ...Option) *BannerStore {
	return NewOrderedStore(db, bannerTable, opts...)
}

// NewSliderStore creates a new SliderStore.
func NewSliderStore(db *sql.DB, opts ...Option) *SliderStore {
	return NewOrderedStore(db, sliderTable, opts...)
}

// NewServiceStore creates a new ServiceStore.
func NewServiceStore(db *sql.DB, opts ...Option) *ServiceStore {
	return NewOrderedStore(db, serviceTable, opts...)
}

// NewTestimonialStore creates a new TestimonialStore.
func NewTestimonialStore(db *sql.DB, opts ...Option) *TestimonialStore {
	return NewOrderedStore(db, testimonialTable, opts...)
}

// NewPortfolioStore creates a new PortfolioStore.
func NewPortfolioStore(db *sql.DB, opts ...Option) *PortfolioStore {
	return NewOrderedStore(db, portfolioTable, opts...)
}

// NewTeamMemberStore creates a new TeamMemberStore.
func NewTeamMemberStore(db *sql.DB, opts ...Option) *TeamMemberStore {
	return NewOrderedStore(db, teamMemberTable, opts...)
}

// NewFAQStore creates a new FAQStore.
func NewFAQStore(db *sql.DB, opts ...Option) *FAQStore {
	return NewOrderedStore(db, faqTable, opts...)
}

// NewBlogStore creates a new BlogStore.
func NewBlogStore(db *sql.DB, opts ...Option) *BlogStore {
	return NewOrderedStore(db, blogTable, opts...)
}
