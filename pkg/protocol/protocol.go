// Package protocol defines the messages exchanged between the popup and the
// content script of the extension.
package protocol

import (
	"context"
	"encoding/json"

	"github.com/davecgh/go-spew/spew"
	"github.com/joomcode/errorx"
)

var (
	// Errors is the protocol error namespace.
	Errors = errorx.NewNamespace("protocol")
	// ErrMalformed is returned for messages that cannot be decoded.
	ErrMalformed = Errors.NewType("malformed")
	// ErrUnknownType is returned for well-formed messages of an unknown type.
	ErrUnknownType = Errors.NewType("unknown_type")
)

// Type is the message type.
type Type string

// Message types.
const (
	SetGain   Type = "SET_GAIN"
	GetGain   Type = "GET_GAIN"
	GetStatus Type = "GET_STATUS"
)

// Request is a message sent by the popup.
type Request struct {
	Type Type     `json:"type"`
	Gain *float64 `json:"gain,omitempty"`
}

// NewSetGain creates a SET_GAIN request.
func NewSetGain(gain float64) Request {
	return Request{Type: SetGain, Gain: &gain}
}

// NewGetGain creates a GET_GAIN request.
func NewGetGain() Request {
	return Request{Type: GetGain}
}

// NewGetStatus creates a GET_STATUS request.
func NewGetStatus() Request {
	return Request{Type: GetStatus}
}

// Encode the request as a JSON object.
func (r Request) Encode() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, ErrMalformed.Wrap(err, "encode request")
	}
	return b, nil
}

// Validate checks the request type and its required fields.
func (r Request) Validate() error {
	switch r.Type {
	case SetGain:
		if r.Gain == nil {
			return ErrMalformed.New("%s without gain", r.Type)
		}
	case GetGain, GetStatus:
	default:
		return ErrUnknownType.New("message type %q", r.Type)
	}
	return nil
}

// DecodeRequest decodes and validates a request.
func DecodeRequest(b []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return Request{}, ErrMalformed.Wrap(err, "decode request")
	}
	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Response is the content script's answer to a request.
//
// SET_GAIN answers {success, gain}, GET_GAIN answers {gain} and
// GET_STATUS answers {gain, audioContextState, mediaCount}.
type Response struct {
	Success           bool    `json:"success,omitempty"`
	Gain              float64 `json:"gain"`
	AudioContextState string  `json:"audioContextState,omitempty"`
	MediaCount        *int    `json:"mediaCount,omitempty"`
}

// Encode the response as a JSON object.
func (r Response) Encode() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, ErrMalformed.Wrap(err, "encode response")
	}
	return b, nil
}

// DecodeResponse decodes a response.
func DecodeResponse(b []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return Response{}, ErrMalformed.Wrap(err, "decode response")
	}
	return r, nil
}

// Handler answers requests.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// DumpMessage renders a raw inbound message for diagnostics. JSON is shown
// field by field.
func DumpMessage(b []byte) string {
	var fields any
	if err := json.Unmarshal(b, &fields); err != nil {
		return spew.Sdump(string(b))
	}
	return spew.Sdump(fields)
}
