package models

// MathProblem is the arithmetic challenge both players race on. The nonce is
// single-use: it binds an answer submission to this exact problem instance
// and is never reissued within a session.
type MathProblem struct {
	OperandA int    `json:"a"`
	OperandB int    `json:"b"`
	Operator string `json:"op"`
	Text     string `json:"text"`
	Nonce    string `json:"nonce"`
}

const (
	OperatorAdd      = "+"
	OperatorSubtract = "-"
	OperatorMultiply = "*"
)
