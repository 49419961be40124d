package model

import "time"

// User is a store author account. Savor stores credentials for authors but
// session handling and login flows live in the auth collaborator; the core
// only needs the identity for the ownership relation on Store.
type User struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`
}
