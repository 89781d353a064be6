package model

import (
	"fmt"
	"strings"
)

type Choice string

const (
	ChoiceA Choice = "A"
	ChoiceB Choice = "B"
)

func ParseChoice(value string) (Choice, error) {
	switch Choice(strings.ToUpper(strings.TrimSpace(value))) {
	case ChoiceA:
		return ChoiceA, nil
	case ChoiceB:
		return ChoiceB, nil
	default:
		return "", fmt.Errorf("unknown choice %q", value)
	}
}

func (c Choice) Valid() bool {
	return c == ChoiceA || c == ChoiceB
}

// Labels maps each choice to the text shown to visitors.
type Labels struct {
	A string `json:"A"`
	B string `json:"B"`
}

func (l Labels) For(c Choice) string {
	if c == ChoiceB {
		return l.B
	}
	return l.A
}
