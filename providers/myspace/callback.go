package myspace

import (
	"net/http"
	"strings"
)

// CallbackParams flattens the query and form values of a callback request.
// The first value of each key wins.
func CallbackParams(r *http.Request) map[string]string {
	params := map[string]string{}
	if r == nil {
		return params
	}
	if err := r.ParseForm(); err != nil && r.URL != nil {
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				params[key] = strings.TrimSpace(values[0])
			}
		}
		return params
	}
	for key, values := range r.Form {
		if len(values) > 0 {
			params[key] = strings.TrimSpace(values[0])
		}
	}
	return params
}
