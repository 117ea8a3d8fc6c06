/*
Copyright 2024 Onramp Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package request

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

var client = &http.Client{Timeout: defaultTimeout}

// ToJsonReq serializes payload into a buffer ready to be sent as a JSON
// request body.
func ToJsonReq(payload interface{}) (*bytes.Buffer, error) {
	c, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(c), nil
}

// Call sends the prepared request with a JSON content type and decodes the
// JSON response body into response. The raw *http.Response is returned so
// callers can branch on the status code; an empty body is not an error.
func Call(req *http.Request, response interface{}) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return resp, err
	}
	defer func() { _ = resp.Body.Close() }()

	if response == nil {
		return resp, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return resp, err
	}
	return resp, nil
}

// BasicAuth returns the base64 credential part of a basic authentication
// header for the given username and password.
func BasicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}
