// ABOUTME: Decodes Agda's JSON response lines: strict dispatch on "kind", lenient payloads
// ABOUTME: The discriminator is peeked with easyjson's lexer; payloads use encoding/json struct tags

package agda

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mailru/easyjson/jlexer"
)

// promptPrefix is printed by agda --interaction-json before each response.
const promptPrefix = "JSON> "

// DecodeResp decodes one response line.
// Errors are always *DecodeError.
func DecodeResp(line []byte) (Resp, error) {
	body := trimPrompt(line)
	kind, err := peekKind(body)
	if err != nil {
		return nil, &DecodeError{Line: clone(line), Err: err}
	}
	resp, err := decodeResp(kind, body)
	if err != nil {
		return nil, &DecodeError{Line: clone(line), Kind: kind, Err: err}
	}
	return resp, nil
}

// DecodeDisplayInfo decodes the inner payload of a DisplayInfo response.
func DecodeDisplayInfo(data []byte) (DisplayInfo, error) {
	info, err := decodeDisplayInfo(bytes.TrimSpace(data))
	if err != nil {
		return nil, &DecodeError{Line: clone(data), Kind: "DisplayInfo", Err: err}
	}
	return info, nil
}

func trimPrompt(line []byte) []byte {
	line = bytes.TrimSpace(line)
	for bytes.HasPrefix(line, []byte(promptPrefix)) {
		line = bytes.TrimSpace(line[len(promptPrefix):])
	}
	return line
}

// peekKind returns the top level "kind" field without decoding the rest.
func peekKind(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty line", ErrMalformed)
	}
	in := jlexer.Lexer{Data: data}
	kind, found := "", false
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if key == "kind" {
			kind = in.String()
			found = true
		} else {
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
	if err := in.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !found {
		return "", ErrMissingKind
	}
	return kind, nil
}

func decodeAs[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}

func decodeResp(kind string, body []byte) (Resp, error) {
	switch kind {
	case "HighlightingInfo":
		return decodeAs[RespHighlightingInfo](body)
	case "Status":
		return decodeAs[RespStatus](body)
	case "JumpToError":
		return decodeAs[RespJumpToError](body)
	case "InteractionPoints":
		return decodeAs[RespInteractionPoints](body)
	case "GiveAction":
		return decodeAs[RespGiveAction](body)
	case "MakeCase":
		return decodeAs[RespMakeCase](body)
	case "SolveAll":
		return RespSolveAll{Raw: clone(body)}, nil
	case "DisplayInfo":
		var p struct {
			Info json.RawMessage `json:"info"`
		}
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, err
		}
		info, err := decodeDisplayInfo(p.Info)
		if err != nil {
			return nil, err
		}
		return RespDisplayInfo{Info: info}, nil
	case "RunningInfo":
		return decodeAs[RespRunningInfo](body)
	case "ClearRunningInfo":
		return RespClearRunningInfo{}, nil
	case "ClearHighlighting":
		return RespClearHighlighting{Raw: clone(body)}, nil
	case "DoneAborting":
		return RespDoneAborting{}, nil
	case "DoneExiting":
		return RespDoneExiting{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
}

func decodeDisplayInfo(raw json.RawMessage) (DisplayInfo, error) {
	if isAbsent(raw) {
		return nil, errors.New("display info: missing info")
	}
	kind, err := peekKind(raw)
	if err != nil {
		return nil, fmt.Errorf("display info: %w", err)
	}
	switch kind {
	case "CompilationOk":
		return decodeAs[InfoCompilationOk](raw)
	case "Constraints":
		return InfoConstraints{Raw: clone(raw)}, nil
	case "AllGoalsWarnings":
		return decodeAs[InfoAllGoalsWarnings](raw)
	case "Time":
		return decodeAs[InfoTime](raw)
	case "Error":
		// Agda >= 2.6.1 nests the message under "error".
		var p struct {
			Message Text `json:"message"`
			Error   *struct {
				Message Text `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		msg := p.Message
		if p.Error != nil && p.Error.Message != "" {
			msg = p.Error.Message
		}
		return InfoError{Message: msg}, nil
	case "IntroNotFound":
		return InfoIntroNotFound{Raw: clone(raw)}, nil
	case "IntroConstructorUnknown":
		return InfoIntroConstructorUnknown{Raw: clone(raw)}, nil
	case "Auto":
		return decodeAs[InfoAuto](raw)
	case "ModuleContents":
		return InfoModuleContents{Raw: clone(raw)}, nil
	case "SearchAbout":
		v, err := decodeAs[InfoSearchAbout](raw)
		v.Raw = clone(raw)
		return v, err
	case "WhyInScope":
		return InfoWhyInScope{Raw: clone(raw)}, nil
	case "NormalForm":
		v, err := decodeAs[InfoNormalForm](raw)
		v.Raw = clone(raw)
		return v, err
	case "InferredType":
		v, err := decodeAs[InfoInferredType](raw)
		v.Raw = clone(raw)
		return v, err
	case "Context":
		v, err := decodeAs[InfoContext](raw)
		v.Raw = clone(raw)
		return v, err
	case "Version":
		return decodeAs[InfoVersion](raw)
	case "GoalSpecific":
		var p struct {
			InteractionPoint InteractionPoint `json:"interactionPoint"`
			GoalInfo         json.RawMessage  `json:"goalInfo"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		goal, err := decodeGoalInfo(p.GoalInfo)
		if err != nil {
			return nil, err
		}
		return InfoGoalSpecific{InteractionPoint: p.InteractionPoint, GoalInfo: goal}, nil
	}
	return nil, fmt.Errorf("display info: %w %q", ErrUnknownKind, kind)
}

func decodeGoalInfo(raw json.RawMessage) (GoalInfo, error) {
	if isAbsent(raw) {
		return nil, errors.New("goal info: missing goalInfo")
	}
	kind, err := peekKind(raw)
	if err != nil {
		return nil, fmt.Errorf("goal info: %w", err)
	}
	switch kind {
	case "CurrentGoal":
		return decodeAs[CurrentGoal](raw)
	case "GoalType":
		v, err := decodeAs[GoalType](raw)
		v.Raw = clone(raw)
		return v, err
	case "HelperFunction":
		return decodeAs[HelperFunction](raw)
	case "NormalForm":
		return decodeAs[NormalForm](raw)
	case "InferredType":
		return decodeAs[InferredType](raw)
	}
	return nil, fmt.Errorf("goal info: %w %q", ErrUnknownKind, kind)
}

// EncodeResp renders r in Agda's JSON shape. Partially modeled variants are
// written back verbatim when they still hold their raw payload.
func EncodeResp(r Resp) ([]byte, error) {
	switch v := r.(type) {
	case RespDisplayInfo:
		info, err := encodeDisplayInfo(v.Info)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Kind string          `json:"kind"`
			Info json.RawMessage `json:"info"`
		}{v.Kind(), info})
	case RespSolveAll:
		return rawOrKind(v.Raw, v.Kind())
	case RespClearHighlighting:
		return rawOrKind(v.Raw, v.Kind())
	}
	return withKind(r.Kind(), r)
}

func encodeDisplayInfo(info DisplayInfo) ([]byte, error) {
	switch v := info.(type) {
	case nil:
		return nil, errors.New("display info: nil info")
	case InfoGoalSpecific:
		if v.GoalInfo == nil {
			return nil, errors.New("goal specific: nil goal info")
		}
		goal, err := withKind(v.GoalInfo.Kind(), v.GoalInfo)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Kind             string           `json:"kind"`
			InteractionPoint InteractionPoint `json:"interactionPoint"`
			GoalInfo         json.RawMessage  `json:"goalInfo"`
		}{v.Kind(), v.InteractionPoint, goal})
	case InfoConstraints:
		return rawOrKind(v.Raw, v.Kind())
	case InfoIntroNotFound:
		return rawOrKind(v.Raw, v.Kind())
	case InfoIntroConstructorUnknown:
		return rawOrKind(v.Raw, v.Kind())
	case InfoModuleContents:
		return rawOrKind(v.Raw, v.Kind())
	case InfoWhyInScope:
		return rawOrKind(v.Raw, v.Kind())
	case InfoSearchAbout:
		if len(v.Raw) > 0 {
			return clone(v.Raw), nil
		}
	case InfoNormalForm:
		if len(v.Raw) > 0 {
			return clone(v.Raw), nil
		}
	case InfoInferredType:
		if len(v.Raw) > 0 {
			return clone(v.Raw), nil
		}
	case InfoContext:
		if len(v.Raw) > 0 {
			return clone(v.Raw), nil
		}
	}
	return withKind(info.Kind(), info)
}

// withKind marshals v and prepends the "kind" discriminator.
func withKind(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encoding %s: payload is not an object", kind)
	}
	tag, _ := json.Marshal(kind)
	out := make([]byte, 0, len(body)+len(tag)+9)
	out = append(out, `{"kind":`...)
	out = append(out, tag...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

func rawOrKind(raw json.RawMessage, kind string) ([]byte, error) {
	if len(raw) > 0 {
		return clone(raw), nil
	}
	return withKind(kind, struct{}{})
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
