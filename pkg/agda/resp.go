// ABOUTME: Response model: the closed set of JSON responses Agda writes in --interaction-json mode
// ABOUTME: Several variants are intentionally partial and keep their raw payload instead of typed fields

package agda

import "encoding/json"

// Resp is one response line from Agda. The set of implementations is closed.
type Resp interface {
	Kind() string
	isResp()
}

// Status is a point-in-time snapshot reported after most commands.
type Status struct {
	ShowImplicitArguments bool `json:"showImplicitArguments"`
	Checked               bool `json:"checked"`
}

// MakeCaseVariant tells whether clauses belong to a function or an extended lambda.
type MakeCaseVariant string

const (
	MakeCaseFunction       MakeCaseVariant = "Function"
	MakeCaseExtendedLambda MakeCaseVariant = "ExtendedLambda"
)

type (
	RespHighlightingInfo struct {
		Filepath string          `json:"filepath,omitempty"`
		Direct   bool            `json:"direct"`
		Info     json.RawMessage `json:"info,omitempty"`
	}
	RespStatus struct {
		Status Status `json:"status"`
	}
	RespJumpToError struct {
		Filepath string `json:"filepath"`
		Position int32  `json:"position"`
	}
	RespInteractionPoints struct {
		Points []InteractionPoint `json:"interactionPoints"`
	}
	RespGiveAction struct {
		GiveResult       GiveResult       `json:"giveResult"`
		InteractionPoint InteractionPoint `json:"interactionPoint"`
	}
	// RespMakeCase carries the printed clauses that replace the goal's clause.
	RespMakeCase struct {
		Variant          MakeCaseVariant  `json:"variant"`
		InteractionPoint InteractionPoint `json:"interactionPoint"`
		Clauses          []string         `json:"clauses"`
	}
	// RespSolveAll carries solutions for one or more metas; not modeled yet.
	RespSolveAll struct {
		Raw json.RawMessage `json:"-"`
	}
	RespDisplayInfo struct {
		Info DisplayInfo `json:"-"`
	}
	// RespRunningInfo is progress output; DebugLevel is the message's verbosity.
	RespRunningInfo struct {
		DebugLevel int    `json:"debugLevel"`
		Message    string `json:"message"`
	}
	RespClearRunningInfo  struct{}
	RespClearHighlighting struct {
		Raw json.RawMessage `json:"-"`
	}
	// RespDoneAborting is sent once an abort has completed.
	RespDoneAborting struct{}
	RespDoneExiting  struct{}
)

func (RespHighlightingInfo) Kind() string  { return "HighlightingInfo" }
func (RespStatus) Kind() string            { return "Status" }
func (RespJumpToError) Kind() string       { return "JumpToError" }
func (RespInteractionPoints) Kind() string { return "InteractionPoints" }
func (RespGiveAction) Kind() string        { return "GiveAction" }
func (RespMakeCase) Kind() string          { return "MakeCase" }
func (RespSolveAll) Kind() string          { return "SolveAll" }
func (RespDisplayInfo) Kind() string       { return "DisplayInfo" }
func (RespRunningInfo) Kind() string       { return "RunningInfo" }
func (RespClearRunningInfo) Kind() string  { return "ClearRunningInfo" }
func (RespClearHighlighting) Kind() string { return "ClearHighlighting" }
func (RespDoneAborting) Kind() string      { return "DoneAborting" }
func (RespDoneExiting) Kind() string       { return "DoneExiting" }

func (RespHighlightingInfo) isResp()  {}
func (RespStatus) isResp()            {}
func (RespJumpToError) isResp()       {}
func (RespInteractionPoints) isResp() {}
func (RespGiveAction) isResp()        {}
func (RespMakeCase) isResp()          {}
func (RespSolveAll) isResp()          {}
func (RespDisplayInfo) isResp()       {}
func (RespRunningInfo) isResp()       {}
func (RespClearRunningInfo) isResp()  {}
func (RespClearHighlighting) isResp() {}
func (RespDoneAborting) isResp()      {}
func (RespDoneExiting) isResp()       {}

// DisplayInfo is the informational payload of a DisplayInfo response.
type DisplayInfo interface {
	Kind() string
	isDisplayInfo()
}

type (
	InfoCompilationOk struct {
		Warnings Text `json:"warnings"`
		Errors   Text `json:"errors"`
	}
	InfoConstraints struct {
		Raw json.RawMessage `json:"-"`
	}
	InfoAllGoalsWarnings struct {
		VisibleGoals   json.RawMessage `json:"visibleGoals,omitempty"`
		InvisibleGoals json.RawMessage `json:"invisibleGoals,omitempty"`
		Warnings       Text            `json:"warnings"`
		Errors         Text            `json:"errors"`
	}
	InfoTime struct {
		Time Text `json:"time"`
	}
	InfoError struct {
		Message Text `json:"message"`
	}
	InfoIntroNotFound struct {
		Raw json.RawMessage `json:"-"`
	}
	InfoIntroConstructorUnknown struct {
		Raw json.RawMessage `json:"-"`
	}
	InfoAuto struct {
		Info Text `json:"info"`
	}
	InfoModuleContents struct {
		Raw json.RawMessage `json:"-"`
	}
	InfoSearchAbout struct {
		Search string          `json:"search"`
		Raw    json.RawMessage `json:"-"`
	}
	InfoWhyInScope struct {
		Raw json.RawMessage `json:"-"`
	}
	InfoNormalForm struct {
		Expr Text            `json:"expr"`
		Raw  json.RawMessage `json:"-"`
	}
	InfoInferredType struct {
		Expr Text            `json:"expr"`
		Raw  json.RawMessage `json:"-"`
	}
	InfoContext struct {
		InteractionPoint InteractionPoint `json:"interactionPoint"`
		Raw              json.RawMessage  `json:"-"`
	}
	InfoVersion struct {
		Version string `json:"version"`
	}
	InfoGoalSpecific struct {
		InteractionPoint InteractionPoint `json:"interactionPoint"`
		GoalInfo         GoalInfo         `json:"-"`
	}
)

func (InfoCompilationOk) Kind() string           { return "CompilationOk" }
func (InfoConstraints) Kind() string             { return "Constraints" }
func (InfoAllGoalsWarnings) Kind() string        { return "AllGoalsWarnings" }
func (InfoTime) Kind() string                    { return "Time" }
func (InfoError) Kind() string                   { return "Error" }
func (InfoIntroNotFound) Kind() string           { return "IntroNotFound" }
func (InfoIntroConstructorUnknown) Kind() string { return "IntroConstructorUnknown" }
func (InfoAuto) Kind() string                    { return "Auto" }
func (InfoModuleContents) Kind() string          { return "ModuleContents" }
func (InfoSearchAbout) Kind() string             { return "SearchAbout" }
func (InfoWhyInScope) Kind() string              { return "WhyInScope" }
func (InfoNormalForm) Kind() string              { return "NormalForm" }
func (InfoInferredType) Kind() string            { return "InferredType" }
func (InfoContext) Kind() string                 { return "Context" }
func (InfoVersion) Kind() string                 { return "Version" }
func (InfoGoalSpecific) Kind() string            { return "GoalSpecific" }

func (InfoCompilationOk) isDisplayInfo()           {}
func (InfoConstraints) isDisplayInfo()             {}
func (InfoAllGoalsWarnings) isDisplayInfo()        {}
func (InfoTime) isDisplayInfo()                    {}
func (InfoError) isDisplayInfo()                   {}
func (InfoIntroNotFound) isDisplayInfo()           {}
func (InfoIntroConstructorUnknown) isDisplayInfo() {}
func (InfoAuto) isDisplayInfo()                    {}
func (InfoModuleContents) isDisplayInfo()          {}
func (InfoSearchAbout) isDisplayInfo()             {}
func (InfoWhyInScope) isDisplayInfo()              {}
func (InfoNormalForm) isDisplayInfo()              {}
func (InfoInferredType) isDisplayInfo()            {}
func (InfoContext) isDisplayInfo()                 {}
func (InfoVersion) isDisplayInfo()                 {}
func (InfoGoalSpecific) isDisplayInfo()            {}

// GoalInfo is the goal-specific part of an InfoGoalSpecific payload.
type GoalInfo interface {
	Kind() string
	isGoalInfo()
}

type (
	// CurrentGoal answers Cmd_goal_type.
	CurrentGoal struct {
		Rewrite string `json:"rewrite,omitempty"`
		Type    Text   `json:"type"`
	}
	// GoalType answers the Cmd_goal_type_context family; entries are kept raw.
	GoalType struct {
		Rewrite string          `json:"rewrite,omitempty"`
		Type    Text            `json:"type"`
		Raw     json.RawMessage `json:"-"`
	}
	HelperFunction struct {
		Signature Text `json:"signature"`
	}
	NormalForm struct {
		ComputeMode string `json:"computeMode,omitempty"`
		Expr        Text   `json:"expr"`
	}
	InferredType struct {
		Expr Text `json:"expr"`
	}
)

func (CurrentGoal) Kind() string    { return "CurrentGoal" }
func (GoalType) Kind() string       { return "GoalType" }
func (HelperFunction) Kind() string { return "HelperFunction" }
func (NormalForm) Kind() string     { return "NormalForm" }
func (InferredType) Kind() string   { return "InferredType" }

func (CurrentGoal) isGoalInfo()    {}
func (GoalType) isGoalInfo()       {}
func (HelperFunction) isGoalInfo() {}
func (NormalForm) isGoalInfo()     {}
func (InferredType) isGoalInfo()   {}

// ErrorText returns the compilation or command error carried by info, if any.
func ErrorText(info DisplayInfo) (string, bool) {
	switch v := info.(type) {
	case InfoError:
		return string(v.Message), true
	case InfoAllGoalsWarnings:
		if v.Errors != "" {
			return string(v.Errors), true
		}
	case InfoCompilationOk:
		if v.Errors != "" {
			return string(v.Errors), true
		}
	}
	return "", false
}
