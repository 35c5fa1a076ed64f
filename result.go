package pagesnap

import "encoding/json"

// MediaKind tells whether a payload is text or an image.
type MediaKind string

// MediaKind constants.
const (
	MediaText  MediaKind = "TEXT"
	MediaImage MediaKind = "IMAGE"
)

// Encoding describes how a payload is represented as a string.
type Encoding string

// Encoding constants.
const (
	EncodingUTF8   Encoding = "UTF8"
	EncodingBase64 Encoding = "BASE64"
)

// ContentTypeJPEG is the content type of captured screenshots.
const ContentTypeJPEG = "image/jpeg"

// Result is the outcome of one extraction request. Exactly one of the
// success fields or Err is populated. A Result is not modified after it is
// constructed.
type Result struct {
	Payload     string
	MediaKind   MediaKind
	Encoding    Encoding
	ContentType string

	Err *Error
}

// NewTextResult returns a successful text result.
func NewTextResult(text string) *Result {
	return &Result{
		Payload:   text,
		MediaKind: MediaText,
		Encoding:  EncodingUTF8,
	}
}

// NewImageResult returns a successful image result holding base64 data.
func NewImageResult(data, contentType string) *Result {
	return &Result{
		Payload:     data,
		MediaKind:   MediaImage,
		Encoding:    EncodingBase64,
		ContentType: contentType,
	}
}

// NewFailure converts err into a failed result. Errors without an
// application code become EINTERNAL.
func NewFailure(err error) *Result {
	return &Result{Err: &Error{Code: ErrorCode(err), Message: ErrorMessage(err)}}
}

// OK reports whether the result is a success.
func (r *Result) OK() bool {
	return r.Err == nil
}

// Response is the caller-facing wire representation of a Result.
type Response struct {
	Success     bool   `json:"success"`
	Data        string `json:"data,omitempty"`
	Error       string `json:"error,omitempty"`
	Code        string `json:"code,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// MarshalJSON always emits data on success, so an empty text region is
// encoded as "data":"". Failures omit it.
func (r Response) MarshalJSON() ([]byte, error) {
	type response Response
	if !r.Success {
		return json.Marshal(response(r))
	}
	return json.Marshal(struct {
		response
		Data string `json:"data"`
	}{response(r), r.Data})
}

// NewResponse converts a Result into its wire representation.
func NewResponse(r *Result) *Response {
	if !r.OK() {
		return &Response{Error: r.Err.Message, Code: r.Err.Code}
	}
	return &Response{
		Success:     true,
		Data:        r.Payload,
		ContentType: r.ContentType,
	}
}
