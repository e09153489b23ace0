package factory

import "testing"

type widget struct {
	Size int `json:"size"`
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[*widget]()
	if err := r.Register("widget", func(conf map[string]any) (*widget, error) {
		var w widget
		if err := DecodeConf(conf, &w); err != nil {
			return nil, err
		}
		return &w, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	w, err := r.Build(ModuleConfig{Type: "widget", Conf: map[string]any{"size": 3}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if w.Size != 3 {
		t.Fatalf("size = %d, want 3", w.Size)
	}

	if _, err := r.Build(ModuleConfig{Type: "gadget"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if err := r.Register("widget", func(map[string]any) (*widget, error) { return nil, nil }); err == nil {
		t.Fatal("expected error on duplicate registration")
	}
	if err := r.Register("nil", nil); err == nil {
		t.Fatal("expected error on nil builder")
	}
}

func TestDecodeConf(t *testing.T) {
	var w widget
	if err := DecodeConf(map[string]any{"size": 7, "ignored": true}, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Size != 7 {
		t.Fatalf("size = %d, want 7", w.Size)
	}
}
