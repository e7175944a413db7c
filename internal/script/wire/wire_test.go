package wire

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeArgVectorRoundTrips(t *testing.T) {
	args := []string{"foo", "bar baz", ""}
	raw := EncodeArgVector(args)
	got := DecodeArgVector(raw)
	if !reflect.DeepEqual(got, args) {
		t.Fatalf("DecodeArgVector(%q) = %#v, want %#v", raw, got, args)
	}
}

func TestDecodeArgVectorEmpty(t *testing.T) {
	if got := DecodeArgVector(EncodeArgVector(nil)); got != nil {
		t.Fatalf("DecodeArgVector(empty) = %#v, want nil", got)
	}
}

func TestDecodeArgVectorRejectsNonArray(t *testing.T) {
	if got := DecodeArgVector(`{"not":"an array"}`); got != nil {
		t.Fatalf("DecodeArgVector(object) = %#v, want nil", got)
	}
}

func TestEncodeDecodeBytesRoundTrips(t *testing.T) {
	data := []byte{0, 1, 2, 255, 'x', 'y', 'z'}
	raw := EncodeBytes(data)
	got := DecodeBytes(raw)
	if !reflect.DeepEqual(got, data) {
		t.Fatalf("DecodeBytes(%q) = %v, want %v", raw, got, data)
	}
}

func TestDecodeBytesMalformed(t *testing.T) {
	if got := DecodeBytes(`{}`); got != nil {
		t.Fatalf("DecodeBytes({}) = %v, want nil", got)
	}
}

func TestEncodeDecodeExCommandPayloadRoundTrips(t *testing.T) {
	raw := EncodeExCommandPayload("write", []string{"file.txt"}, true, 7, 3)
	name, args, bang, bufferID, windowID := DecodeExCommandPayload(raw)
	if name != "write" {
		t.Fatalf("name = %q, want write", name)
	}
	if !reflect.DeepEqual(args, []string{"file.txt"}) {
		t.Fatalf("args = %#v, want [file.txt]", args)
	}
	if !bang {
		t.Fatal("bang = false, want true")
	}
	if bufferID != 7 || windowID != 3 {
		t.Fatalf("bufferID,windowID = %d,%d, want 7,3", bufferID, windowID)
	}
}

func TestEncodeExCommandPayloadNoArgs(t *testing.T) {
	raw := EncodeExCommandPayload("quit", nil, false, 0, 0)
	name, args, bang, _, _ := DecodeExCommandPayload(raw)
	if name != "quit" || bang || len(args) != 0 {
		t.Fatalf("decoded = %q %#v %v, want quit [] false", name, args, bang)
	}
}
