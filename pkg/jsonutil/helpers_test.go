package jsonutil

import (
	"bytes"
	"testing"
)

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, map[string]int{"zoom": 128}); err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}
	want := "{\n  \"zoom\": 128\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFprintRejectsUnmarshalable(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, make(chan int)); err == nil {
		t.Fatal("expected an error for a channel")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q on failure", buf.String())
	}
}
