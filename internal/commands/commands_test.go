// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"

	"github.com/jeranaias/reportchat/internal/model"
	"github.com/jeranaias/reportchat/internal/report"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/tech react", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		name  string
		arg   string
	}{
		{"/help", "/help", ""},
		{"/tech react", "/tech", "react"},
		{"/asg  session   auth ", "/asg", "session auth"},
		{"  /summary  ", "/summary", ""},
	}

	for _, tc := range tests {
		got := Parse(tc.input)
		if !got.IsCommand {
			t.Errorf("Parse(%q).IsCommand = false, want true", tc.input)
		}
		if got.Name != tc.name || got.Arg != tc.arg {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tc.input, got.Name, got.Arg, tc.name, tc.arg)
		}
	}

	if Parse("plain question").IsCommand {
		t.Error("Parse(plain question).IsCommand = true, want false")
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/tech react", "/tech"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// EXECUTION TESTS
// =============================================================================

func testContext(t *testing.T) (*Context, *bool) {
	t.Helper()
	cleared := false
	ctx := &Context{
		Data: report.Default(),
		History: func() []model.Message {
			return []model.Message{{ID: 1, Role: model.RoleUser, Content: "hi"}}
		},
		Clear: func() { cleared = true },
	}
	return ctx, &cleared
}

func TestExecuteHelp(t *testing.T) {
	ctx, _ := testContext(t)
	reply, handled := NewRegistry().Execute(ctx, "/help")
	if !handled {
		t.Fatal("expected /help to be handled")
	}
	if !strings.HasPrefix(reply, "Available commands:") {
		t.Errorf("unexpected help reply: %q", reply)
	}
	for _, want := range []string{"/clear", "/summary", "/tech <term>", "/pattern <term>", "/asg <id or term>"} {
		if !strings.Contains(reply, want) {
			t.Errorf("help reply missing %q", want)
		}
	}
}

func TestExecuteClearAndReset(t *testing.T) {
	reg := NewRegistry()

	ctx, cleared := testContext(t)
	reply, handled := reg.Execute(ctx, "/clear")
	if !handled || reply != "Chat cleared." {
		t.Errorf("Execute(/clear) = (%q, %v)", reply, handled)
	}
	if !*cleared {
		t.Error("/clear did not invoke the clear callback")
	}

	ctx, cleared = testContext(t)
	reply, handled = reg.Execute(ctx, "/reset")
	if !handled || reply != "Chat reset." {
		t.Errorf("Execute(/reset) = (%q, %v)", reply, handled)
	}
	if !*cleared {
		t.Error("/reset did not invoke the clear callback")
	}
}

func TestExecuteSummary(t *testing.T) {
	ctx, _ := testContext(t)
	reply, handled := NewRegistry().Execute(ctx, "/summary")
	if !handled {
		t.Fatal("expected /summary to be handled")
	}
	if reply != ctx.Data.Summary.Introduction {
		t.Error("/summary should return the report introduction verbatim")
	}
}

func TestExecuteExport(t *testing.T) {
	ctx, _ := testContext(t)
	reply, handled := NewRegistry().Execute(ctx, "/export")
	if !handled {
		t.Fatal("expected /export to be handled")
	}
	if !strings.HasPrefix(reply, "Copy below JSON:\n") {
		t.Errorf("unexpected export prefix: %q", reply[:min(len(reply), 40)])
	}
	if !strings.Contains(reply, `"content": "hi"`) {
		t.Error("export should contain the conversation JSON")
	}
}

func TestExportTruncation(t *testing.T) {
	big := strings.Repeat("x", 10000)
	ctx := &Context{
		Data: report.Default(),
		History: func() []model.Message {
			return []model.Message{{ID: 1, Role: model.RoleUser, Content: big}}
		},
	}
	reply, handled := NewRegistry().Execute(ctx, "/export")
	if !handled {
		t.Fatal("expected /export to be handled")
	}
	body := strings.TrimPrefix(reply, "Copy below JSON:\n")
	if len([]rune(body)) != exportLimit {
		t.Errorf("export body length = %d runes, want %d", len([]rune(body)), exportLimit)
	}
}

func TestExecuteTech(t *testing.T) {
	reg := NewRegistry()
	ctx, _ := testContext(t)

	reply, handled := reg.Execute(ctx, "/tech react")
	if !handled {
		t.Fatal("expected /tech to be handled")
	}
	if !strings.Contains(strings.ToLower(reply), "react") || !strings.Contains(reply, ":") {
		t.Errorf("unexpected /tech reply: %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/tech")
	if reply != "Usage: /tech <term>" {
		t.Errorf("Execute(/tech) = %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/tech zzzznotfound")
	if reply != "No technology matches." {
		t.Errorf("Execute(/tech zzzznotfound) = %q", reply)
	}
}

func TestExecutePattern(t *testing.T) {
	reg := NewRegistry()
	ctx, _ := testContext(t)

	reply, handled := reg.Execute(ctx, "/pattern singleton")
	if !handled {
		t.Fatal("expected /pattern to be handled")
	}
	if !strings.Contains(reply, "Singleton") || !strings.Contains(reply, "\n") {
		t.Errorf("unexpected /pattern reply: %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/pattern")
	if reply != "Usage: /pattern <term>" {
		t.Errorf("Execute(/pattern) = %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/pattern zzzznotfound")
	if reply != "No pattern matches." {
		t.Errorf("Execute(/pattern zzzznotfound) = %q", reply)
	}
}

func TestExecuteAssignment(t *testing.T) {
	reg := NewRegistry()
	ctx, _ := testContext(t)

	reply, handled := reg.Execute(ctx, "/asg 12")
	if !handled {
		t.Fatal("expected /asg to be handled")
	}
	if !strings.HasPrefix(reply, "ASG_12 ") {
		t.Errorf("unexpected /asg 12 reply: %q", reply)
	}
	for _, want := range []string{"Concepts: ", "Logic: ", "Learning: "} {
		if !strings.Contains(reply, want) {
			t.Errorf("/asg reply missing %q", want)
		}
	}

	reply, _ = reg.Execute(ctx, "/asg auth")
	if !strings.Contains(reply, "ASG_") {
		t.Errorf("term search found nothing: %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/asg")
	if reply != "Usage: /asg <id|term>" {
		t.Errorf("Execute(/asg) = %q", reply)
	}

	reply, _ = reg.Execute(ctx, "/asg 9999")
	if reply != "No assignment matches." {
		t.Errorf("Execute(/asg 9999) = %q", reply)
	}
}

func TestExecuteUnknownFallsThrough(t *testing.T) {
	ctx, _ := testContext(t)
	reg := NewRegistry()

	if _, handled := reg.Execute(ctx, "/definitely-not-a-command"); handled {
		t.Error("unknown command should fall through")
	}
	if _, handled := reg.Execute(ctx, "plain question"); handled {
		t.Error("plain input should fall through")
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestComplete(t *testing.T) {
	reg := NewRegistry()

	got := reg.Complete("/te")
	if len(got) != 1 || got[0].Value != "/tech" {
		t.Errorf("Complete(/te) = %+v", got)
	}

	if got := reg.Complete("/tech react"); got != nil {
		t.Errorf("Complete with args = %+v, want nil", got)
	}

	// Hidden commands stay out of completion.
	for _, c := range reg.Complete("/re") {
		if c.Value == "/reset" {
			t.Error("hidden /reset should not complete")
		}
	}
}
