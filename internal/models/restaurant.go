package models

type Restaurant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	ImageURI string `json:"image_uri,omitempty"`
}
