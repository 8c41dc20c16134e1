// ABOUTME: Golden tests for the command encoder and IOTCM envelope
// ABOUTME: Checks exact token spelling, quoting rules, ranges and determinism

package agda

import "testing"

func TestEncodeGolden(t *testing.T) {
	t.Parallel()

	in := NoRangeInput(1, "x")
	ranged := GoalInput{
		ID:    3,
		Range: Interval("/tmp/A.agda", Position{Offset: 10, Line: 2, Column: 3}, Position{Offset: 15, Line: 2, Column: 8}),
		Code:  "x",
	}

	tests := []struct {
		name string
		cmd  Cmd
		want string
	}{
		{"give", GiveCmd(NoRangeInput(233, "a")), `( Cmd_give WithoutForce (233 noRange "a") )`},
		{"give forced with range", CmdGive{Force: WithForce, Input: ranged},
			`( Cmd_give WithForce (3 (intervalsToRange (Just (mkAbsolute "/tmp/A.agda")) [Interval (Pn () 10 2 3) (Pn () 15 2 8)]) "x") )`},
		{"load", LoadCmd("path.agda"), `( Cmd_load "path.agda" [] )`},
		{"load with flags", LoadCmd("A.agda", "-i", "lib"), `( Cmd_load "A.agda" ["-i", "lib"] )`},
		{"compile", CmdCompile{Backend: "GHC", Path: "Main.agda"}, `( Cmd_compile GHC "Main.agda" [] )`},
		{"constraints", CmdConstraints{}, `Cmd_constraints`},
		{"metas", CmdMetas{Rewrite: Normalised}, `( Cmd_metas Normalised )`},
		{"module contents toplevel", CmdShowModuleContentsToplevel{Rewrite: AsIs, Search: "Nat"},
			`( Cmd_show_module_contents_toplevel AsIs "Nat" )`},
		{"search about", CmdSearchAboutToplevel{Rewrite: HeadNormal, Search: "_+_"},
			`( Cmd_search_about_toplevel HeadNormal "_+_" )`},
		{"solve all", CmdSolveAll{Rewrite: Instantiated}, `( Cmd_solveAll Instantiated )`},
		{"solve one", CmdSolveOne{Rewrite: Simplified, Input: in}, `( Cmd_solveOne Simplified (1 noRange "x") )`},
		{"auto one", CmdAutoOne{Input: SimpleInput(4)}, `( Cmd_autoOne (4 noRange "") )`},
		{"auto all", CmdAutoAll{}, `Cmd_autoAll`},
		{"infer toplevel", InferCmd("zero"), `( Cmd_infer_toplevel Instantiated "zero" )`},
		{"compute toplevel", ComputeCmd("1 + 1"), `( Cmd_compute_toplevel DefaultCompute "1 + 1" )`},
		{"compute ignore abstract", CmdComputeToplevel{Mode: IgnoreAbstract, Code: "f"},
			`( Cmd_compute_toplevel IgnoreAbstract "f" )`},
		{"load highlighting", CmdLoadHighlightingInfo{Path: "A.agda"}, `( Cmd_load_highlighting_info "A.agda" )`},
		{"token highlighting", CmdTokenHighlighting{Path: "A.agda", Remove: RemoveFile},
			`( Cmd_tokenHighlighting "A.agda" Remove )`},
		{"highlight", CmdHighlight{Input: in}, `( Cmd_highlight (1 noRange "x") )`},
		{"show implicit", CmdShowImplicitArgs{Show: true}, `( ShowImplicitArgs True )`},
		{"toggle implicit", CmdToggleImplicitArgs{}, `ToggleImplicitArgs`},
		{"refine", CmdRefine{Input: in}, `( Cmd_refine (1 noRange "x") )`},
		{"intro", CmdIntro{Input: in}, `( Cmd_intro False (1 noRange "x") )`},
		{"refine or intro", CmdRefineOrIntro{Dedicated: true, Input: in}, `( Cmd_refine_or_intro True (1 noRange "x") )`},
		{"context", CmdContext{Rewrite: Normalised, Input: in}, `( Cmd_context Normalised (1 noRange "x") )`},
		{"helper function", CmdHelperFunction{Input: in}, `( Cmd_helper_function AsIs (1 noRange "x") )`},
		{"infer", CmdInfer{Rewrite: Simplified, Input: in}, `( Cmd_infer Simplified (1 noRange "x") )`},
		{"goal type", GoalTypeCmd(SimpleInput(0)), `( Cmd_goal_type Instantiated (0 noRange "") )`},
		{"elaborate give", CmdElaborateGive{Input: in}, `( Cmd_elaborate_give AsIs (1 noRange "x") )`},
		{"goal type context", CmdGoalTypeContext{Input: in}, `( Cmd_goal_type_context AsIs (1 noRange "x") )`},
		{"goal type context infer", CmdGoalTypeContextInfer{Input: in}, `( Cmd_goal_type_context_infer AsIs (1 noRange "x") )`},
		{"goal type context check", CmdGoalTypeContextCheck{Input: in}, `( Cmd_goal_type_context_check AsIs (1 noRange "x") )`},
		{"module contents", CmdShowModuleContents{Input: in}, `( Cmd_show_module_contents AsIs (1 noRange "x") )`},
		{"make case", CmdMakeCase{Input: in}, `( Cmd_make_case (1 noRange "x") )`},
		{"compute", CmdCompute{Mode: UseShowInstance, Input: in}, `( Cmd_compute UseShowInstance (1 noRange "x") )`},
		{"why in scope", CmdWhyInScope{Input: in}, `( Cmd_why_in_scope (1 noRange "x") )`},
		{"why in scope toplevel", CmdWhyInScopeToplevel{Name: "suc"}, `( Cmd_why_in_scope_toplevel "suc" )`},
		{"version", CmdShowVersion{}, `Cmd_show_version`},
		{"abort", CmdAbort{}, `Cmd_abort`},
		{"exit", CmdExit{}, `Cmd_exit`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Encode(tt.cmd)
			if got != tt.want {
				t.Errorf("Encode() =\n  %s\nwant\n  %s", got, tt.want)
			}
			if again := Encode(tt.cmd); again != got {
				t.Errorf("Encode() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestIOTCMString(t *testing.T) {
	t.Parallel()

	got := NewIOTCM("/tmp/A.agda", LoadCmd("/tmp/A.agda")).String()
	want := `IOTCM "/tmp/A.agda" NonInteractive Direct ( Cmd_load "/tmp/A.agda" [] )`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	custom := IOTCM{File: "f", Level: Interactive, Method: Indirect, Cmd: CmdAbort{}}.String()
	if custom != `IOTCM "f" Interactive Indirect Cmd_abort` {
		t.Errorf("got %q", custom)
	}

	none := IOTCM{File: "f", Level: HighlightNone, Cmd: CmdShowVersion{}}.String()
	if none != `IOTCM "f" None Direct Cmd_show_version` {
		t.Errorf("got %q", none)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{`a"b\c`, `"a\"b\\c"`},
		{"λ x → x", `"λ x → x"`},
		{"line\nnext\ttab\r", `"line\nnext\ttab\r"`},
		{"\x01" + "2", `"\1\&2"`},
		{"\x01x", `"\1x"`},
		{"bad\xffbyte", "\"bad�byte\""},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRangeDefaults(t *testing.T) {
	t.Parallel()

	if !NoRange.IsNoRange() {
		t.Error("NoRange should report IsNoRange")
	}
	if !(Range{}).IsNoRange() {
		t.Error("zero Range should be NoRange")
	}
	if Interval("f", Position{}, Position{}).IsNoRange() {
		t.Error("Interval should carry a range")
	}
	if SimpleInput(7) != NoRangeInput(7, "") {
		t.Error("SimpleInput should be an empty no-range input")
	}
}
