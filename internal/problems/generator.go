package problems

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/pandupatra/math-tug-of-war/internal/models"
)

// Answers outside this range are rejected at the boundary before the
// resolver ever sees them.
const (
	AnswerMin = -1000000
	AnswerMax = 1000000
)

var operators = []string{
	models.OperatorAdd,
	models.OperatorSubtract,
	models.OperatorMultiply,
}

// Generate produces a fresh problem with a single-use nonce. Subtraction
// draws b in [0,a] so the result is never negative; multiplication stays in
// times-table range.
func Generate() models.MathProblem {
	op := operators[randInt(0, len(operators)-1)]

	var a, b int
	switch op {
	case models.OperatorMultiply:
		a = randInt(2, 12)
		b = randInt(2, 12)
	case models.OperatorSubtract:
		a = randInt(10, 99)
		b = randInt(0, a)
	default:
		a = randInt(1, 99)
		b = randInt(1, 99)
	}

	return models.MathProblem{
		OperandA: a,
		OperandB: b,
		Operator: op,
		Text:     fmt.Sprintf("%d %s %d", a, op, b),
		Nonce:    newNonce(),
	}
}

// Evaluate returns the expected answer for a problem.
func Evaluate(p *models.MathProblem) (int, error) {
	switch p.Operator {
	case models.OperatorAdd:
		return p.OperandA + p.OperandB, nil
	case models.OperatorSubtract:
		return p.OperandA - p.OperandB, nil
	case models.OperatorMultiply:
		return p.OperandA * p.OperandB, nil
	}
	return 0, errors.New("unsupported operator")
}

// newNonce returns 16 hex chars from a CSPRNG. 64 bits of entropy is plenty
// for a token that only has to be unguessable within one session.
func newNonce() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func randInt(min, max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		panic(err)
	}
	return min + int(n.Int64())
}
