package model

import "gorm.io/gorm"

// Settings is a single-row table with the public contact details of the site.
type Settings struct {
	gorm.Model
	Logo         string `json:"logo"`
	Location     string `json:"location" gorm:"size:255"`
	Phone        string `json:"phone" gorm:"size:20"`
	Email        string `json:"email" gorm:"size:100"`
	OpeningHours string `json:"opening_hours" gorm:"size:255"`
	Facebook     string `json:"facebook"`
	Twitter      string `json:"twitter"`
	Instagram    string `json:"instagram"`
	Linkedin     string `json:"linkedin"`
	Youtube      string `json:"youtube"`
}

type Slider struct {
	gorm.Model
	Title    string `json:"title" gorm:"size:255;not null"`
	Subtitle string `json:"subtitle" gorm:"size:255"`
	Image    string `json:"image"`
	Link     string `json:"link"`
}
