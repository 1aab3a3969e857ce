package ors

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

func readJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}
