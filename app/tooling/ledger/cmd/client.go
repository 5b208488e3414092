package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/enset/powledger/business/web/errs"
)

var client = http.Client{}

// call performs the request against the node and decodes the response into
// the provided value. A nil value means the response body is not needed.
func call(method string, path string, body any, resp any) (int, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url+path, r)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var er errs.Response
		if err := json.NewDecoder(res.Body).Decode(&er); err != nil {
			return res.StatusCode, fmt.Errorf("status %d", res.StatusCode)
		}
		if len(er.Fields) > 0 {
			return res.StatusCode, fmt.Errorf("status %d: %s: %v", res.StatusCode, er.Error, er.Fields)
		}
		return res.StatusCode, fmt.Errorf("status %d: %s", res.StatusCode, er.Error)
	}

	if resp == nil || res.StatusCode == http.StatusNoContent {
		return res.StatusCode, nil
	}

	if err := json.NewDecoder(res.Body).Decode(resp); err != nil {
		return res.StatusCode, fmt.Errorf("decoding response: %w", err)
	}

	return res.StatusCode, nil
}

// printJSON writes the value in indented form to the command output.
func printJSON(w io.Writer, val any) error {
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}
