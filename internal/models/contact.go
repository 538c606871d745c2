package models

import "time"

// ContactRequest holds the three contact form fields as submitted
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactMessage is a stored contact form submission
type ContactMessage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ContactAck acknowledges an accepted submission
type ContactAck struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
}
