package model

import "time"

const (
	// StatusNew is the only status a contact message is ever given.
	StatusNew = "new"

	// PhoneNotProvided is stored when the submitter leaves the phone field blank.
	PhoneNotProvided = "not provided"
)

// ContactMessage represents a message submitted via the contact form.
// Business fields are immutable after creation; only Read/ReadAt change.
type ContactMessage struct {
	ID         int64      `json:"id" yaml:"id"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
	FirstName  string     `json:"firstName" yaml:"firstName"`
	LastName   string     `json:"lastName" yaml:"lastName"`
	Email      string     `json:"email" yaml:"email"`
	Phone      string     `json:"phone" yaml:"phone"`
	Subject    string     `json:"subject" yaml:"subject"`
	Message    string     `json:"message" yaml:"message"`
	Newsletter bool       `json:"newsletter" yaml:"newsletter"`
	Status     string     `json:"status" yaml:"status"`
	Read       bool       `json:"read" yaml:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty" yaml:"readAt,omitempty"`
}

// FullName returns "First Last".
func (m *ContactMessage) FullName() string {
	return m.FirstName + " " + m.LastName
}

// SubmitInput carries the raw fields of a contact form submission.
type SubmitInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Newsletter bool   `json:"newsletter"`
}

// Receipt is returned to the submitter once a message has been persisted.
type Receipt struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the aggregate view over every stored contact message.
type Stats struct {
	Total                 int            `json:"total" yaml:"total"`
	Read                  int            `json:"read" yaml:"read"`
	Unread                int            `json:"unread" yaml:"unread"`
	BySubject             map[string]int `json:"bySubject" yaml:"bySubject"`
	ByMonth               map[string]int `json:"byMonth" yaml:"byMonth"`
	NewsletterSubscribers int            `json:"newsletterSubscribers" yaml:"newsletterSubscribers"`
}
