package dto

import "net/url"

/**
  {
      "task_id": "a1b2c3",
      "video_type": "video",
      "video_link": "https://youtube.com/watch?v=...",
      "title": "My video",
      "quantity": 5
  }
*/

type CreateOrder struct {
	TaskID    string `json:"task_id,omitempty"`
	VideoType string `json:"video_type"`
	VideoLink string `json:"video_link"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// Validate returns per-field errors in the response shape the API exposes,
// e.g. {"quantity": ["must be a positive integer"]}.
func (c CreateOrder) Validate() map[string][]string {
	fieldErrors := map[string][]string{}

	if c.VideoType != "video" && c.VideoType != "shorts" {
		fieldErrors["video_type"] = []string{"must be one of: video, shorts"}
	}

	if u, err := url.Parse(c.VideoLink); err != nil || u.Scheme == "" || u.Host == "" {
		fieldErrors["video_link"] = []string{"must be a valid URL"}
	}

	if c.Title == "" {
		fieldErrors["title"] = []string{"is required"}
	}

	if c.Quantity <= 0 {
		fieldErrors["quantity"] = []string{"must be a positive integer"}
	}

	return fieldErrors
}

type UpdateOrder struct {
	Status     *string `json:"status,omitempty"`
	FailReason *string `json:"fail_reason,omitempty"`
}

type Order struct {
	TaskID     string  `json:"task_id"`
	VideoType  string  `json:"video_type"`
	VideoLink  string  `json:"video_link"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	Cost       string  `json:"cost"`
	Status     string  `json:"status"`
	FailReason *string `json:"fail_reason,omitempty"`
	Refunded   bool    `json:"refunded"`
	CreatedAt  string  `json:"created_at"`
}
