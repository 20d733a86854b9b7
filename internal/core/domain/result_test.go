package domain

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestActionResult_JSONRoundTrip(t *testing.T) {
	user := User{ID: "u1", Username: "bob", Email: "bob@example.com", Role: RoleUser}

	tests := []struct {
		name   string
		result ActionResult[User]
		wire   string
	}{
		{
			name:   "success",
			result: Success(user),
			wire:   `"ok":true`,
		},
		{
			name: "validation",
			result: Failure[User](&ValidationError{Errors: map[string]FieldViolation{
				"email": {Msg: "EMAIL_IN_USE", Path: "email"},
			}}),
			wire: `"code":"ValidationError"`,
		},
		{
			name:   "authorization",
			result: Failure[User](&AuthorizationError{Message: "Invalid credentials"}),
			wire:   `"code":"AuthorizationError"`,
		},
		{
			name:   "server",
			result: Failure[User](&ServerError{Message: "boom"}),
			wire:   `"code":"ServerError"`,
		},
		{
			name:   "nil failure",
			result: Failure[User](nil),
			wire:   `"message":"Internal server error"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(b), tt.wire) {
				t.Fatalf("expected %s in %s", tt.wire, b)
			}

			var got ActionResult[User]
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal %s: %v", b, err)
			}
			if got.OK() != tt.result.OK() {
				t.Fatalf("expected ok=%v, got %v", tt.result.OK(), got.OK())
			}
			wantData, _ := tt.result.Data()
			gotData, _ := got.Data()
			if gotData != wantData {
				t.Fatalf("expected data %+v, got %+v", wantData, gotData)
			}
			if !reflect.DeepEqual(got.Err(), tt.result.Err()) {
				t.Fatalf("expected err %#v, got %#v", tt.result.Err(), got.Err())
			}
		})
	}
}

func TestActionResult_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"ok without data", `{"ok":true}`},
		{"failure without err", `{"ok":false}`},
		{"unknown code", `{"err":{"code":"Teapot"}}`},
		{"validation without fields", `{"err":{"code":"ValidationError"}}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ActionResult[User]
			if err := json.Unmarshal([]byte(tt.body), &r); err == nil {
				t.Fatalf("expected error for %s", tt.body)
			}
		})
	}
}

func TestDecodeErrorPayload(t *testing.T) {
	if _, err := DecodeErrorPayload([]byte(`{"code":"Teapot","message":"short and stout"}`)); !errors.Is(err, ErrUnknownErrorCode) {
		t.Fatalf("expected ErrUnknownErrorCode, got %v", err)
	}

	_, err := DecodeErrorPayload([]byte(`{"code":"ValidationError","errors":{}}`))
	if err == nil || !strings.Contains(err.Error(), "validation error without fields") {
		t.Fatalf("expected fieldless validation error, got %v", err)
	}

	p, err := DecodeErrorPayload([]byte(`{"code":"ServerError"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if se, ok := p.(*ServerError); !ok || se.Message != DefaultServerMessage {
		t.Fatalf("expected default server message, got %#v", p)
	}
}

func TestMarshalErrorPayload_NilIsServerError(t *testing.T) {
	b, err := MarshalErrorPayload(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"code":"ServerError","message":"Internal server error"}` {
		t.Fatalf("unexpected payload %s", b)
	}
}

func TestMatchError(t *testing.T) {
	code := func(p ErrorPayload) string {
		return MatchError(p,
			func(*ValidationError) string { return "validation" },
			func(*AuthorizationError) string { return "authorization" },
			func(e *ServerError) string { return "server:" + e.Message },
		)
	}
	if got := code(&ValidationError{}); got != "validation" {
		t.Fatalf("expected validation, got %q", got)
	}
	if got := code(&AuthorizationError{}); got != "authorization" {
		t.Fatalf("expected authorization, got %q", got)
	}
	if got := code(nil); got != "server:"+DefaultServerMessage {
		t.Fatalf("expected default server branch, got %q", got)
	}
}
