package api

import (
	"errors"
	"testing"
)

func TestIsAPIMethod(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "Users_LoginWithSomething", want: true},
		{name: "Users_Something", want: true},
		{name: "blah", want: false},
		{name: "Users_blah", want: false},
		{name: "users_Blah", want: false},
		{name: "users_blah", want: false},
		{name: "Users_Blah_", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAPIMethod(tt.name); got != tt.want {
				t.Fatalf("IsAPIMethod(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestActionForMethod(t *testing.T) {
	action, err := ActionForMethod("Core_LoginWithKey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != "Core.LoginWithKey" {
		t.Fatalf("action = %q, want Core.LoginWithKey", action)
	}

	_, err = ActionForMethod("not_a_method")
	var unknown *UnknownMethodError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownMethodError", err)
	}
	if unknown.Name != "not_a_method" {
		t.Fatalf("rejected name = %q, want not_a_method", unknown.Name)
	}
}
