package models

// Session is the payload cached against a refresh token and embedded in
// issued bearer tokens.
type Session struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Rank    string `json:"rank"`
}
