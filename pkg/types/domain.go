package types

import "time"

// Submission is a stored contact form submission.
type Submission struct {
	// Row identifier assigned by the store.
	ID int64 `json:"id" example:"42"`
	// Sender name as entered in the form.
	Name string `json:"name" example:"山田太郎"`
	// Sender email address.
	Email string `json:"email" example:"taro@example.com"`
	// Optional phone number.
	Phone string `json:"phone,omitempty" example:"090-1234-5678"`
	// Optional subject line.
	Subject string `json:"subject,omitempty" example:"営業時間について"`
	// Free-form message body.
	Message string `json:"message" example:"年末の営業時間を教えてください。"`
	// Client IP recorded at intake.
	ClientIP string `json:"client_ip,omitempty" example:"203.0.113.7"`
	// Time the submission was accepted.
	CreatedAt time.Time `json:"created_at"`
	// Metadata for any uploaded attachments. File bodies are not stored.
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment records metadata for one uploaded file part.
type Attachment struct {
	// Row identifier assigned by the store.
	ID int64 `json:"id" example:"7"`
	// Original filename from the multipart part.
	Filename string `json:"filename" example:"floorplan.pdf"`
	// Declared content type of the part.
	ContentType string `json:"content_type" example:"application/pdf"`
	// Part size in bytes.
	SizeBytes int64 `json:"size_bytes" example:"52113"`
}

// Reservation is a stored table reservation created through the LINE flow.
type Reservation struct {
	// Row identifier assigned by the store.
	ID int64 `json:"id" example:"12"`
	// LINE user ID that made the reservation.
	UserID string `json:"user_id" example:"U4af4980629deadbeef"`
	// Reserved slot, minute precision.
	ReservedAt time.Time `json:"reserved_at"`
	// Party size.
	NumPeople int `json:"num_people" example:"2"`
	// Lifecycle status, e.g. confirmed or cancelled.
	Status string `json:"status" example:"confirmed"`
	// Time the reservation row was created.
	CreatedAt time.Time `json:"created_at"`
}
