package session

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/desertthunder/uplink/internal/transfer"
)

// redirectBody is the structured response shape the server may answer with.
type redirectBody struct {
	Redirect string `json:"redirect"`
}

// ResolveNavigation decides the single navigation target for a successful
// transfer, in precedence order:
//
//  1. a structured (JSON) body carrying a non-empty "redirect" field
//  2. the transport-resolved URL, when it differs from the originating page
//  3. the form action the submission was posted to
//
// A malformed structured body is not an error; resolution falls through to
// the next rule. A final URL equal to the page URL is treated as no redirect
// at all, so a redirect-to-self lands on rule 3.
func ResolveNavigation(resp *transfer.Response, pageURL, formAction string) string {
	if resp != nil && isStructured(resp.ContentType) {
		var body redirectBody
		if err := json.Unmarshal(resp.Body, &body); err == nil && body.Redirect != "" {
			return body.Redirect
		}
	}

	if resp != nil && resp.FinalURL != "" && resp.FinalURL != pageURL {
		return resp.FinalURL
	}

	return formAction
}

// isStructured reports whether a content type indicates a JSON body.
func isStructured(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
