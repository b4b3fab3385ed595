package spec

import "testing"

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse([]byte("")); err == nil {
		t.Fatalf("expected error for empty spec")
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	yaml := []byte("version: 1\napp: {}\ncommands: []\n")
	if _, err := Parse(yaml); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestAllCommandsAndFindByID(t *testing.T) {
	specDoc, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	commands := specDoc.AllCommands()
	if len(commands) == 0 {
		t.Fatalf("expected commands")
	}
	cmd := specDoc.FindByID("panel")
	if cmd == nil {
		t.Fatalf("expected panel command")
	}
	if cmd.Name == "" {
		t.Fatalf("expected command name")
	}
	if specDoc.FindByID("config.show") == nil {
		t.Fatalf("expected config.show command")
	}
	if specDoc.FindByID("update.check") == nil {
		t.Fatalf("expected update.check command")
	}
	if specDoc.FindByID("") != nil {
		t.Fatalf("expected nil for empty id")
	}
}

func TestDefaultCommandResolvable(t *testing.T) {
	specDoc, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if specDoc.App.DefaultCommand == "" {
		t.Fatalf("expected default command")
	}
	if specDoc.FindByID(specDoc.App.DefaultCommand) == nil {
		t.Fatalf("default command %q not in spec", specDoc.App.DefaultCommand)
	}
}
