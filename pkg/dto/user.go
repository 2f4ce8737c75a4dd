package dto

type Profile struct {
	ID      int64  `json:"id"`
	Login   string `json:"login"`
	Email   string `json:"email"`
	Balance string `json:"balance"`
	IsAdmin bool   `json:"is_admin"`
}

// Detail is the single-message error body, e.g.
// {"detail": "Insufficient balance."}.
type Detail struct {
	Detail string `json:"detail"`
}
