package models

import "gorm.io/gorm"

// User mirrors the identity service's learner record. The progress core
// only checks that a learner exists.
type User struct {
	gorm.Model
	Username   string `gorm:"unique;not null"`
	Email      string `gorm:"unique;not null"`
	Role       string `gorm:"default:user"` // user, admin
	Group      string
	University string
}
