package restyutil

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives one rendered http message per response.
type Output interface {
	Write(id string, contents string)
}

// DumpResponses writes every request/response pair made by the client to `output`,
// message ids count up from 1 in the order responses come back.
func DumpResponses(client *resty.Client, output Output) {
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(strconv.FormatUint(id, 10)+".http", FormatHttpMessage(res))
		return nil
	})
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: response status
// 5: response headers in ("Key: Value" format)
// 6: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s

%s

%s`

// FormatHttpMessage renders a response and the request that produced it as plain text.
func FormatHttpMessage(res *resty.Response) string {
	requestHeaders := res.Request.Header
	if res.Request.RawRequest != nil {
		requestHeaders = res.Request.RawRequest.Header
	}

	return fmt.Sprintf(
		messageInfoTemplate,
		res.Request.Method, res.Request.URL,
		formatHeaders(requestHeaders),
		res.Status(),
		formatHeaders(res.Header()),
		res.String(),
	)
}
