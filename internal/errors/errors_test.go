package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  Input("months must be positive"),
			want: "[INPUT_ERROR] months must be positive",
		},
		{
			name: "with cause",
			err:  Storage("load catalog", fmt.Errorf("connection refused")),
			want: "[STORAGE_ERROR] load catalog: connection refused",
		},
		{
			name: "not found",
			err:  NotFound("quote", "q-1"),
			want: "[NOT_FOUND] quote not found: q-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTypeOfFollowsWrapping(t *testing.T) {
	base := NotFound("catalog", "pricing")
	wrapped := fmt.Errorf("api: %w", base)

	if got := TypeOf(wrapped); got != TypeNotFound {
		t.Errorf("expected %s, got %s", TypeNotFound, got)
	}
	if got := TypeOf(stderrors.New("plain")); got != TypeInternal {
		t.Errorf("expected %s for plain error, got %s", TypeInternal, got)
	}
}

func TestIsTypeWalksCauses(t *testing.T) {
	inner := Catalog("decode zones", stderrors.New("unexpected EOF"))
	outer := Storage("load pricing catalog", inner)

	if !IsType(outer, TypeStorage) {
		t.Error("expected outer error to be a storage error")
	}
	if !IsType(outer, TypeCatalog) {
		t.Error("expected wrapped catalog error to be found")
	}
	if IsType(outer, TypeInput) {
		t.Error("did not expect an input error")
	}
}

func TestWithContext(t *testing.T) {
	err := Input("unknown size").WithContext("size", "9x9")
	if err.Context["size"] != "9x9" {
		t.Errorf("expected context size=9x9, got %v", err.Context["size"])
	}
}
