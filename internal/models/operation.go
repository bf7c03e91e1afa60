package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is the arithmetic operator of a puzzle.
type Operation string

const (
	Add      Operation = "+"
	Subtract Operation = "-"
	Multiply Operation = "×"
	Divide   Operation = "÷"
)

// Operations lists every operation in display order.
var Operations = []Operation{Add, Subtract, Multiply, Divide}

func (o Operation) IsValid() bool {
	switch o {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

func (o Operation) String() string {
	return string(o)
}

// Name returns a word for the operation, used in storage columns and logs.
func (o Operation) Name() string {
	switch o {
	case Add:
		return "addition"
	case Subtract:
		return "subtraction"
	case Multiply:
		return "multiplication"
	case Divide:
		return "division"
	}
	return "unknown"
}

// ParseOperation accepts the display symbols plus the ASCII forms *, x and /.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "addition":
		return Add, nil
	case "-", "subtraction":
		return Subtract, nil
	case "×", "*", "x", "multiplication":
		return Multiply, nil
	case "÷", "/", "division":
		return Divide, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOperation, data)
	}
	v, err := ParseOperation(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}
