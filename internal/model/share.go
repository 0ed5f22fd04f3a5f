package model

import "time"

// Share grants a user other than the owner access to an item.
type Share struct {
	ItemID     string    `db:"itemId" json:"itemId"`
	UserID     string    `db:"userId" json:"userId"`
	CreatedAt  time.Time `db:"createdAt" json:"createdAt"`
	Permission int16     `db:"permission" json:"permission"`
}

// ShareEntityCourse is the shared entity type used for courses.
const ShareEntityCourse = "Course"
