package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// errorMessageMaxLength is the maximum length of the response body we will
// include into the generated error message
const errorMessageMaxLength = 160

// APIKeyHeader is the header where the API key is sent when configured.
const APIKeyHeader = "apikey"

// Error is a non-success response of the cloud agent. Op names the operation
// but isn't part of the message, the caller's annotation carries it.
type Error struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// NotFound tells if the error is HTTP 404.
func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// call executes the HTTP request. A nil in is sent without a body, and a nil
// out skips reading the response.
func (c *HTTPClient) call(ctx context.Context, op, method, path string, in, out any) (err error) {
	defer err2.Handle(&err, "%s", op)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data := dto.ToJSONBytes(in)
		glog.V(5).Infof("-> %s %s %s", method, path, data)
		body = bytes.NewReader(data)
	}
	request := try.To1(http.NewRequestWithContext(ctx, method, c.baseURL+path, body))
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		request.Header.Set(APIKeyHeader, c.apiKey)
	}

	response := try.To1(c.http.Do(request))
	defer func() {
		closeErr := response.Body.Close()
		if closeErr != nil {
			glog.Warningln("body.Close: ", closeErr)
		}
	}()

	data := try.To1(io.ReadAll(response.Body))
	data = try.To1(checkHTTPStatus(op, response, data))
	glog.V(5).Infof("<- %s %s %d %s", method, path, response.StatusCode, data)

	if out != nil {
		dto.FromJSON(data, out)
	}
	return nil
}

// checkHTTPStatus accepts 200 and 201, everything else is an *Error which
// carries the beginning of the server message.
func checkHTTPStatus(op string, response *http.Response, data []byte) ([]byte, error) {
	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return data, nil
	}
	glog.Warning("http code:", response.Status)
	return nil, &Error{
		Op:         op,
		StatusCode: response.StatusCode,
		Body:       strings.TrimSpace(string(data[:min(errorMessageMaxLength, len(data))])),
	}
}
