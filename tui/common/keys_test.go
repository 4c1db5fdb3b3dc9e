package common

import "testing"

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.Quit.Keys()) == 0 || km.Quit.Keys()[1] != "ctrl+c" {
		t.Fatalf("expected ctrl+c quit binding")
	}
	if km.Reply.Keys()[0] == km.Refresh.Keys()[0] {
		t.Fatalf("reply and refresh must not share a key")
	}
	if got := HelpLine(km.Like, km.Quit); got != "l: like • q: quit" {
		t.Fatalf("unexpected help line: %q", got)
	}
}
