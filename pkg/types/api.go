package types

// ContactResponse is returned by POST /api/contact on success.
type ContactResponse struct {
	// Identifier of the stored submission.
	ID int64 `json:"id" example:"42"`
	// Always "accepted" on the success path.
	Status string `json:"status" example:"accepted"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	Error string `json:"error" example:"name, email and message are required"`
	// HTTP status code.
	Code int `json:"code" example:"400"`
}

// SubmissionsResponse wraps the list returned by GET /api/submissions.
type SubmissionsResponse struct {
	// Most recent submissions, newest first.
	Submissions []Submission `json:"submissions"`
}

// ReservationsResponse wraps the list returned by GET /api/reservations.
type ReservationsResponse struct {
	// Confirmed reservations for the requested day, earliest first.
	Reservations []Reservation `json:"reservations"`
}
