package session

import (
	"errors"
	"testing"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	a := m.Create(nil)
	b := m.Create(nil)

	got, err := m.Get(a.ID().String())
	if err != nil || got != a {
		t.Fatalf("Get(a) = %v, %v", got, err)
	}
	if list := m.List(); len(list) != 2 || list[0] != a || list[1] != b {
		t.Errorf("List = %v, want [a b]", list)
	}

	if err := m.Delete(a.ID().String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(a.ID().String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete err = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete(a.ID().String()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete err = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Get("not-a-ulid"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get(bad id) err = %v, want ErrSessionNotFound", err)
	}
}
