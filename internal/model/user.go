package model

import (
	"time"
)

// DefaultProfileImage is the sentinel filename used when a user has no
// custom avatar. It is never stored per-user and never deleted.
const DefaultProfileImage = "default.jpg"

type User struct {
	ID                 int64     `db:"id"`
	Username           string    `db:"username"`
	FullName           string    `db:"fullname"`
	Phone              *string   `db:"phone"`
	Email              string    `db:"email"`
	PasswordHash       string    `db:"password_hash"`
	ProfileImage       string    `db:"profile_image"`
	ImageVersion       int64     `db:"image_version"`
	SecurityQuestion   *string   `db:"security_question"`
	SecurityAnswerHash *string   `db:"security_answer_hash"`
	CreatedAt          time.Time `db:"created_at"`
}

func (u *User) HasSecurityAnswer() bool {
	return u.SecurityAnswerHash != nil && *u.SecurityAnswerHash != ""
}

func (u *User) HasDefaultImage() bool {
	return u.ProfileImage == DefaultProfileImage
}
