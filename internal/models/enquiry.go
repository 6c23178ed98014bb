// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Enquiry is a contact-form submission. Enquiries are append-only; the
// only mutable column is IsRead.
type Enquiry struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name" validate:"required,max=120"`
	Email     *string    `json:"email,omitempty" validate:"required_without=Phone,omitempty,email,max=200"`
	Phone     *string    `json:"phone,omitempty" validate:"required_without=Email,omitempty,max=40"`
	Subject   *string    `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message   string     `json:"message" validate:"required,max=5000"`
	ServiceID *uuid.UUID `json:"service_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

// EmailAddress and PhoneNumber expose contact fields for the scope helpers.
func (e *Enquiry) EmailAddress() string { return deref(e.Email) }
func (e *Enquiry) PhoneNumber() string  { return deref(e.Phone) }

// Created returns the submission time.
func (e *Enquiry) Created() time.Time { return e.CreatedAt }

// Visitor is one recorded page view on the public site.
type Visitor struct {
	ID        uuid.UUID `json:"id"`
	IPAddress string    `json:"ip_address"`
	UserAgent *string   `json:"user_agent,omitempty"`
	Path      string    `json:"path"`
	Referrer  *string   `json:"referrer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Created returns the time of the visit.
func (v *Visitor) Created() time.Time { return v.CreatedAt }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
