package api

import (
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type RenderBody struct {
	Text string `json:"text"`
}

func (b RenderBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Text, v.Required),
	)
}

type TweetBody struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

func (b TweetBody) Validate() error {
	return v.ValidateStruct(&b,
		v.Field(&b.Text, v.Required),
		v.Field(&b.ImageURL, is.URL),
	)
}
