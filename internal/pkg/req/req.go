/*
Package req provides helper functions for HTTP request parsing and data binding.

It decodes JSON request bodies for the HTTP gateway and maps decoding failures onto
application error codes.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"linechat/internal/pkg/errs"
)

// MaxJSONBodySize bounds the request bodies accepted by BindJSON.
const MaxJSONBodySize int64 = 64 << 10 // 64 KB

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// Unknown fields and trailing content are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
