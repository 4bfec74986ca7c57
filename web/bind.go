package web

import (
	"net/http"

	"github.com/go-playground/form"
)

var (
	formDecoder = form.NewDecoder()
)

// Bind ...
func Bind(req *http.Request, obj interface{}) error {
	if err := req.ParseForm(); err != nil {
		return err
	}
	if err := formDecoder.Decode(obj, req.Form); err != nil {
		return err
	}
	return nil
}

type dirSchema struct {
	Dir string `form:"dir"`
}
