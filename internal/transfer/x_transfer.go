package transfer

import "fmt"

type TweetRequest struct {
	Text string `json:"text"`
}

type TweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// XAPIError is a non-2xx response from the X API, decoded from the
// problem document the v2 endpoints return.
type XAPIError struct {
	StatusCode int    `json:"-"`
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *XAPIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("x api error (status %d): %s", e.StatusCode, e.Detail)
	}
	if e.Title != "" {
		return fmt.Sprintf("x api error (status %d): %s", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("x api error (status %d)", e.StatusCode)
}
