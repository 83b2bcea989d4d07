package myspace

import "github.com/tidwall/sjson"

func statusBody(message string) ([]byte, error) {
	return sjson.SetBytes([]byte(`{}`), "status", message)
}
