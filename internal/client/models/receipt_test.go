package models

import "testing"

func TestSession_Empty(t *testing.T) {
	if !(Session{}).Empty() {
		t.Fatal("zero session must be empty")
	}
	if !(Session{UserName: "alice"}).Empty() {
		t.Fatal("session without a refresh token must be empty")
	}
	if (Session{UserName: "alice", RefreshToken: "r"}).Empty() {
		t.Fatal("session with a refresh token must not be empty")
	}
}
