package keyreader

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStartQuitKeyFiresCallback(t *testing.T) {
	quit := make(chan struct{}, 1)
	r, err := Start(context.Background(), strings.NewReader("xq"), func() {
		quit <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatalf("quit callback never fired")
	}
}

func TestStartIgnoresOtherKeys(t *testing.T) {
	quit := make(chan struct{}, 1)
	r, err := Start(context.Background(), strings.NewReader("abc"), func() {
		quit <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Stop()

	select {
	case <-quit:
		t.Fatalf("quit fired without a quit key")
	default:
	}
}

func TestStartNilInputsInert(t *testing.T) {
	r, err := Start(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Stop()

	var nilReader *Reader
	nilReader.Stop()
}

func TestIsQuitKey(t *testing.T) {
	cases := []struct {
		key  byte
		want bool
	}{
		{'q', true},
		{'Q', true},
		{0x03, true},
		{'x', false},
		{'\n', false},
	}
	for _, tc := range cases {
		if got := isQuitKey(tc.key); got != tc.want {
			t.Fatalf("isQuitKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}
