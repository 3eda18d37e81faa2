package resource

import "aqarat_backend/internal/model"

type Settings struct {
	Logo         string `json:"logo"`
	Location     string `json:"location"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	OpeningHours string `json:"opening_hours"`
	Facebook     string `json:"facebook"`
	Twitter      string `json:"twitter"`
	Instagram    string `json:"instagram"`
	Linkedin     string `json:"linkedin"`
	Youtube      string `json:"youtube"`
}

func NewSettings(s *model.Settings) Settings {
	return Settings{
		Logo:         s.Logo,
		Location:     s.Location,
		Phone:        s.Phone,
		Email:        s.Email,
		OpeningHours: s.OpeningHours,
		Facebook:     s.Facebook,
		Twitter:      s.Twitter,
		Instagram:    s.Instagram,
		Linkedin:     s.Linkedin,
		Youtube:      s.Youtube,
	}
}

type Slider struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Link     string `json:"link"`
}

func NewSlider(s *model.Slider) Slider {
	return Slider{ID: s.ID, Title: s.Title, Subtitle: s.Subtitle, Image: s.Image, Link: s.Link}
}
