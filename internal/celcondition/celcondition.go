package celcondition

import (
	"fmt"
	"strings"

	"github.com/DIMO-Network/line-ai-relay/internal/events"
	"github.com/google/cel-go/cel"
	celtypes "github.com/google/cel-go/common/types"
)

func PrepareCondition(celCondition string) (cel.Program, error) {
	opts := []cel.EnvOption{
		cel.Variable("text", cel.StringType),
		cel.Variable("sourceType", cel.StringType),
		cel.Variable("userId", cel.StringType),
		cel.Variable("groupId", cel.StringType),
		cel.Variable("roomId", cel.StringType),
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", err)
	}
	ast, issues := env.Compile(celCondition)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to program CEL expression: %w", err)
	}

	out, _, err := prg.Eval(messageVars(&events.TextMessage{}))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate CEL condition: %w", err)
	}
	if out.Type() != celtypes.BoolType {
		return nil, fmt.Errorf("output type is not bool: %s", out.Type())
	}
	return prg, nil
}

func EvaluateCondition(prg cel.Program, msg *events.TextMessage) (bool, error) {
	if msg == nil {
		return false, fmt.Errorf("message is nil")
	}
	out, _, err := prg.Eval(messageVars(msg))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL condition: %w", err)
	}
	return out.Type() == celtypes.BoolType && out.Value() == true, nil
}

func messageVars(msg *events.TextMessage) map[string]any {
	return map[string]any{
		"text":       msg.Text,
		"sourceType": msg.Source.Type,
		"userId":     msg.Source.UserID,
		"groupId":    msg.Source.GroupID,
		"roomId":     msg.Source.RoomID,
	}
}

// Filter decides which messages are relayed. The zero value allows everything.
type Filter struct {
	program cel.Program
}

// NewFilter compiles condition. A blank condition yields a filter that allows every message.
func NewFilter(condition string) (*Filter, error) {
	if strings.TrimSpace(condition) == "" {
		return &Filter{}, nil
	}
	prg, err := PrepareCondition(condition)
	if err != nil {
		return nil, fmt.Errorf("invalid relay condition: %w", err)
	}
	return &Filter{program: prg}, nil
}

// Allow reports whether msg should be relayed.
func (f *Filter) Allow(msg *events.TextMessage) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	return EvaluateCondition(f.program, msg)
}
