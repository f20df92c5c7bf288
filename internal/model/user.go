package model

import "time"

type UserRegisterRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Grade     int      `json:"grade"`
	Courses   []string `json:"courses"`
}

type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	Id             int64
	Username       string
	Password       string
	Email          string
	FirstName      string
	LastName       string
	Grade          int
	Courses        []string
	CreateDatetime time.Time
	UpdateDatetime time.Time
}
