// Package model contains the persisted entities of camdash.
package model

import "fmt"

// UsernameMaxLength bounds the username column.
const UsernameMaxLength = 15

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"size:15;uniqueIndex;not null"`
	Password string `json:"-" gorm:"column:password;size:80;not null"`
}

func (u User) String() string {
	return fmt.Sprintf("User(%q)", u.Username)
}
