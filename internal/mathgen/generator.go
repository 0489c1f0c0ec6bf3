// Package mathgen produces grade-banded arithmetic questions with one
// correct answer and three plausible, numerically distinct distractors.
package mathgen

import (
	"fmt"
	"math/rand/v2"
)

// maxDistractorAttempts bounds distractor regeneration. When the bound is
// hit, the challenge ships with fewer options instead of looping.
const maxDistractorAttempts = 50

// Challenge is one generated arithmetic question. Options are shuffled;
// CorrectIndex records where the correct answer landed.
type Challenge struct {
	Prompt       string
	Answer       string
	Options      []string
	CorrectIndex int
	Grade        int
}

// Generate produces a challenge appropriate for the grade level.
func Generate(rng *rand.Rand, grade int) Challenge {
	var prompt string
	var answer Value

	switch {
	case grade <= 2:
		prompt, answer = genEarly(rng)
	case grade <= 5:
		prompt, answer = genMiddle(rng)
	default:
		prompt, answer = genAdvanced(rng)
	}

	options, correct := assembleOptions(rng, answer)

	return Challenge{
		Prompt:       prompt,
		Answer:       answer.String(),
		Options:      options,
		CorrectIndex: correct,
		Grade:        grade,
	}
}

// genEarly covers grades 1-2: addition and subtraction over [1,10],
// subtraction never negative.
func genEarly(rng *rand.Rand) (string, Value) {
	a := rng.Int64N(10) + 1
	b := rng.Int64N(10) + 1

	if rng.IntN(2) == 0 {
		return fmt.Sprintf("What is %d + %d?", a, b), Int(a + b)
	}

	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("What is %d - %d?", a, b), Int(a - b)
}

// genMiddle covers grades 3-5: larger addition/subtraction, or
// multiplication with factors in [2,12].
func genMiddle(rng *rand.Rand) (string, Value) {
	switch rng.IntN(3) {
	case 0:
		a := rng.Int64N(900) + 100
		b := rng.Int64N(900) + 100
		return fmt.Sprintf("What is %d + %d?", a, b), Int(a + b)
	case 1:
		a := rng.Int64N(900) + 100
		b := rng.Int64N(900) + 100
		if a < b {
			a, b = b, a
		}
		return fmt.Sprintf("What is %d - %d?", a, b), Int(a - b)
	default:
		a := rng.Int64N(11) + 2
		b := rng.Int64N(11) + 2
		return fmt.Sprintf("What is %d × %d?", a, b), Int(a * b)
	}
}

// genAdvanced covers grade 6 and up: one of four sub-types chosen
// uniformly.
func genAdvanced(rng *rand.Rand) (string, Value) {
	switch rng.IntN(4) {
	case 0:
		return genLinear(rng)
	case 1:
		return genFractionSum(rng)
	case 2:
		return genExponent(rng)
	default:
		return genSquareRoot(rng)
	}
}

// genLinear produces a·x + b = c with an integer solution in [1,10].
func genLinear(rng *rand.Rand) (string, Value) {
	a := rng.Int64N(8) + 2
	x := rng.Int64N(10) + 1
	b := rng.Int64N(20) + 1
	c := a*x + b
	return fmt.Sprintf("Solve for x: %dx + %d = %d", a, b, c), Int(x)
}

// genFractionSum produces a fraction addition with unlike denominators,
// answer reduced to lowest terms.
func genFractionSum(rng *rand.Rand) (string, Value) {
	denoms := []int64{2, 3, 4, 5, 6, 8, 10, 12}
	d1 := denoms[rng.IntN(len(denoms))]
	d2 := denoms[rng.IntN(len(denoms))]
	for d2 == d1 {
		d2 = denoms[rng.IntN(len(denoms))]
	}
	n1 := rng.Int64N(d1-1) + 1
	n2 := rng.Int64N(d2-1) + 1

	sum := NewValue(n1, d1).Add(NewValue(n2, d2))
	return fmt.Sprintf("What is %d/%d + %d/%d? Give your answer in lowest terms.", n1, d1, n2, d2), sum
}

// genExponent produces integer exponentiation, base 2-5, exponent 2-4.
func genExponent(rng *rand.Rand) (string, Value) {
	base := rng.Int64N(4) + 2
	exp := rng.Int64N(3) + 2

	result := int64(1)
	for range exp {
		result *= base
	}
	return fmt.Sprintf("What is %d to the power of %d?", base, exp), Int(result)
}

// genSquareRoot produces a perfect-square root extraction.
func genSquareRoot(rng *rand.Rand) (string, Value) {
	root := rng.Int64N(11) + 2
	return fmt.Sprintf("What is the square root of %d?", root*root), Int(root)
}

// assembleOptions builds the shuffled option list: the correct value plus
// up to three distractors that are unique as canonical numeric values.
// Returns the options and the correct option's position.
func assembleOptions(rng *rand.Rand, correct Value) ([]string, int) {
	values := []Value{correct}

	attempts := 0
	for len(values) < 4 && attempts < maxDistractorAttempts {
		attempts++
		cand := perturb(rng, correct, len(values))
		if containsValue(values, cand) {
			continue
		}
		values = append(values, cand)
	}

	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	options := make([]string, len(values))
	correctIdx := 0
	for i, v := range values {
		options[i] = v.String()
		if v == correct {
			correctIdx = i
		}
	}
	return options, correctIdx
}

// perturb derives a wrong-but-plausible value from the correct one.
// Slot selects the distractor style: offset, mirrored offset, random
// offset. Fractions are perturbed in the numerator or denominator so the
// distractor stays a fraction of similar shape.
func perturb(rng *rand.Rand, correct Value, slot int) Value {
	if !correct.IsInt() {
		switch slot {
		case 1:
			return NewValue(correct.Num+1, correct.Den)
		case 2:
			num := correct.Num - 1
			if num <= 0 {
				num = correct.Num + 2
			}
			return NewValue(num, correct.Den)
		default:
			return NewValue(correct.Num, correct.Den+rng.Int64N(3)+1)
		}
	}

	switch slot {
	case 1:
		return Int(correct.Num + rng.Int64N(3) + 1)
	case 2:
		return Int(correct.Num - rng.Int64N(3) - 1)
	default:
		delta := rng.Int64N(17) - 8
		if delta == 0 {
			delta = 9
		}
		return Int(correct.Num + delta)
	}
}

func containsValue(values []Value, v Value) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
