package stdout

import (
	"bytes"
	"testing"

	"modsource/plugin"
	"modsource/sink"
)

func TestDriver_WritesRecordLine(t *testing.T) {
	a, err := sink.NewAdapter("stdout")
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	var buf bytes.Buffer
	if err := a.Configure(Config{Out: &buf}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.Report(plugin.Record{Path: "dir/file.txt", RuleIndex: 0}); err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := "[ModifySourcePlugin] Add loader for module dir/file.txt at index 0.\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestDriver_RejectsForeignConfig(t *testing.T) {
	d := &driver{}
	if err := d.Configure(42); err == nil {
		t.Fatal("expected error for wrong config type")
	}
	if err := d.Report(plugin.Record{}); err == nil {
		t.Fatal("expected error when not configured")
	}
}
