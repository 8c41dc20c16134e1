// ABOUTME: Closed set of interaction commands (Cmd_*) and the IOTCM envelope that carries them
// ABOUTME: Variants are immutable values; smart constructors fill in the defaults Agda expects

package agda

// Cmd is one interaction command. The set of implementations is closed.
type Cmd interface {
	encode(w *wire)
}

// GoalInput targets a command at a goal.
type GoalInput struct {
	ID    InteractionPoint
	Range Range
	Code  string
}

// NoRangeInput is input typed out of band rather than taken from the goal's extent.
func NoRangeInput(id InteractionPoint, code string) GoalInput {
	return GoalInput{ID: id, Range: NoRange, Code: code}
}

// SimpleInput addresses a goal without any text.
func SimpleInput(id InteractionPoint) GoalInput {
	return NoRangeInput(id, "")
}

// IOTCM is the envelope written to Agda, one per line.
type IOTCM struct {
	File   string
	Level  HighlightingLevel
	Method HighlightingMethod
	Cmd    Cmd
}

// NewIOTCM wraps c with the default highlighting settings.
func NewIOTCM(file string, c Cmd) IOTCM {
	return IOTCM{File: file, Level: NonInteractive, Method: Direct, Cmd: c}
}

func (m IOTCM) String() string {
	var w wire
	w.token("IOTCM")
	w.str(m.File)
	w.token(m.Level.String())
	w.token(m.Method.String())
	m.Cmd.encode(&w)
	return w.String()
}

type (
	CmdLoad struct {
		Path  string
		Flags []string
	}
	// CmdCompile compiles with the named backend (GHC, GHCNoMain, JS, LaTeX, QuickLaTeX, HTML).
	CmdCompile struct {
		Backend string
		Path    string
		Flags   []string
	}
	CmdConstraints struct{}
	CmdMetas       struct{ Rewrite Rewrite }

	CmdShowModuleContentsToplevel struct {
		Rewrite Rewrite
		Search  string
	}
	CmdSearchAboutToplevel struct {
		Rewrite Rewrite
		Search  string
	}
	CmdSolveAll struct{ Rewrite Rewrite }
	CmdSolveOne struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdAutoOne struct{ Input GoalInput }
	CmdAutoAll struct{}

	CmdInferToplevel struct {
		Rewrite Rewrite
		Code    string
	}
	CmdComputeToplevel struct {
		Mode ComputeMode
		Code string
	}
	CmdLoadHighlightingInfo struct{ Path string }
	CmdTokenHighlighting    struct {
		Path   string
		Remove Remove
	}
	CmdHighlight        struct{ Input GoalInput }
	CmdShowImplicitArgs struct{ Show bool }
	CmdToggleImplicitArgs struct{}

	CmdGive struct {
		Force UseForce
		Input GoalInput
	}
	CmdRefine struct{ Input GoalInput }
	// CmdIntro introduces a constructor or lambda; Dedicated restricts the
	// search to the dedicated intro tactic.
	CmdIntro struct {
		Dedicated bool
		Input     GoalInput
	}
	CmdRefineOrIntro struct {
		Dedicated bool
		Input     GoalInput
	}
	CmdContext struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdHelperFunction struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdInfer struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdGoalType struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdElaborateGive struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdGoalTypeContext struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdGoalTypeContextInfer struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdGoalTypeContextCheck struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdShowModuleContents struct {
		Rewrite Rewrite
		Input   GoalInput
	}
	CmdMakeCase struct{ Input GoalInput }
	CmdCompute  struct {
		Mode  ComputeMode
		Input GoalInput
	}
	CmdWhyInScope         struct{ Input GoalInput }
	CmdWhyInScopeToplevel struct{ Name string }
	CmdShowVersion        struct{}
	CmdAbort              struct{}
	CmdExit               struct{}
)

// LoadCmd loads path with the given command line flags.
func LoadCmd(path string, flags ...string) CmdLoad {
	if flags == nil {
		flags = []string{}
	}
	return CmdLoad{Path: path, Flags: flags}
}

// GiveCmd gives in without forcing.
func GiveCmd(in GoalInput) CmdGive { return CmdGive{Force: WithoutForce, Input: in} }

// GoalTypeCmd asks for the instantiated type of a goal.
func GoalTypeCmd(in GoalInput) CmdGoalType { return CmdGoalType{Rewrite: Instantiated, Input: in} }

// InferCmd infers the type of a top level expression.
func InferCmd(code string) CmdInferToplevel {
	return CmdInferToplevel{Rewrite: Instantiated, Code: code}
}

// ComputeCmd normalises a top level expression.
func ComputeCmd(code string) CmdComputeToplevel {
	return CmdComputeToplevel{Mode: DefaultCompute, Code: code}
}

func (c CmdLoad) encode(w *wire) { w.app("Cmd_load", strArg(c.Path), listArg(c.Flags)) }
func (c CmdCompile) encode(w *wire) {
	w.app("Cmd_compile", rawArg(c.Backend), strArg(c.Path), listArg(c.Flags))
}
func (CmdConstraints) encode(w *wire) { w.token("Cmd_constraints") }
func (c CmdMetas) encode(w *wire)     { w.app("Cmd_metas", tokenArg(c.Rewrite)) }
func (c CmdShowModuleContentsToplevel) encode(w *wire) {
	w.app("Cmd_show_module_contents_toplevel", tokenArg(c.Rewrite), strArg(c.Search))
}
func (c CmdSearchAboutToplevel) encode(w *wire) {
	w.app("Cmd_search_about_toplevel", tokenArg(c.Rewrite), strArg(c.Search))
}
func (c CmdSolveAll) encode(w *wire) { w.app("Cmd_solveAll", tokenArg(c.Rewrite)) }
func (c CmdSolveOne) encode(w *wire) {
	w.app("Cmd_solveOne", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdAutoOne) encode(w *wire) { w.app("Cmd_autoOne", goalArg(c.Input)) }
func (CmdAutoAll) encode(w *wire)   { w.token("Cmd_autoAll") }
func (c CmdInferToplevel) encode(w *wire) {
	w.app("Cmd_infer_toplevel", tokenArg(c.Rewrite), strArg(c.Code))
}
func (c CmdComputeToplevel) encode(w *wire) {
	w.app("Cmd_compute_toplevel", tokenArg(c.Mode), strArg(c.Code))
}
func (c CmdLoadHighlightingInfo) encode(w *wire) {
	w.app("Cmd_load_highlighting_info", strArg(c.Path))
}
func (c CmdTokenHighlighting) encode(w *wire) {
	w.app("Cmd_tokenHighlighting", strArg(c.Path), tokenArg(c.Remove))
}
func (c CmdHighlight) encode(w *wire)        { w.app("Cmd_highlight", goalArg(c.Input)) }
func (c CmdShowImplicitArgs) encode(w *wire) { w.app("ShowImplicitArgs", boolArg(c.Show)) }
func (CmdToggleImplicitArgs) encode(w *wire) { w.token("ToggleImplicitArgs") }
func (c CmdGive) encode(w *wire)             { w.app("Cmd_give", tokenArg(c.Force), goalArg(c.Input)) }
func (c CmdRefine) encode(w *wire)           { w.app("Cmd_refine", goalArg(c.Input)) }
func (c CmdIntro) encode(w *wire) {
	w.app("Cmd_intro", boolArg(c.Dedicated), goalArg(c.Input))
}
func (c CmdRefineOrIntro) encode(w *wire) {
	w.app("Cmd_refine_or_intro", boolArg(c.Dedicated), goalArg(c.Input))
}
func (c CmdContext) encode(w *wire) {
	w.app("Cmd_context", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdHelperFunction) encode(w *wire) {
	w.app("Cmd_helper_function", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdInfer) encode(w *wire) { w.app("Cmd_infer", tokenArg(c.Rewrite), goalArg(c.Input)) }
func (c CmdGoalType) encode(w *wire) {
	w.app("Cmd_goal_type", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdElaborateGive) encode(w *wire) {
	w.app("Cmd_elaborate_give", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdGoalTypeContext) encode(w *wire) {
	w.app("Cmd_goal_type_context", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdGoalTypeContextInfer) encode(w *wire) {
	w.app("Cmd_goal_type_context_infer", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdGoalTypeContextCheck) encode(w *wire) {
	w.app("Cmd_goal_type_context_check", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdShowModuleContents) encode(w *wire) {
	w.app("Cmd_show_module_contents", tokenArg(c.Rewrite), goalArg(c.Input))
}
func (c CmdMakeCase) encode(w *wire) { w.app("Cmd_make_case", goalArg(c.Input)) }
func (c CmdCompute) encode(w *wire) {
	w.app("Cmd_compute", tokenArg(c.Mode), goalArg(c.Input))
}
func (c CmdWhyInScope) encode(w *wire) { w.app("Cmd_why_in_scope", goalArg(c.Input)) }
func (c CmdWhyInScopeToplevel) encode(w *wire) {
	w.app("Cmd_why_in_scope_toplevel", strArg(c.Name))
}
func (CmdShowVersion) encode(w *wire) { w.token("Cmd_show_version") }
func (CmdAbort) encode(w *wire)       { w.token("Cmd_abort") }
func (CmdExit) encode(w *wire)        { w.token("Cmd_exit") }
