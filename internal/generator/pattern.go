package generator

import (
	"errors"
	"math/rand/v2"
	"regexp/syntax"
	"strings"
)

// fromPattern synthesizes a string matching the given regular expression by
// walking its parse tree. Unbounded quantifiers are capped at a few
// repetitions. Patterns the walker cannot satisfy (or that exceed the output
// budget) return an error so the caller can fall back to an unconstrained
// string.

const (
	patternMaxOutput  = 256
	patternMaxRepeats = 3
)

var errPatternTooLong = errors.New("generator: pattern output exceeds budget")

func fromPattern(pattern string) (string, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := writeMatch(&sb, re.Simplify()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeMatch(sb *strings.Builder, re *syntax.Regexp) error {
	if sb.Len() > patternMaxOutput {
		return errPatternTooLong
	}
	switch re.Op {
	case syntax.OpLiteral:
		sb.WriteString(string(re.Rune))
	case syntax.OpCharClass:
		r, ok := pickFromClass(re.Rune)
		if !ok {
			return errors.New("generator: empty character class")
		}
		sb.WriteRune(r)
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		sb.WriteRune(printableRunes[rand.IntN(len(printableRunes))])
	case syntax.OpCapture:
		return writeMatch(sb, re.Sub[0])
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := writeMatch(sb, sub); err != nil {
				return err
			}
		}
	case syntax.OpAlternate:
		return writeMatch(sb, re.Sub[rand.IntN(len(re.Sub))])
	case syntax.OpStar:
		return writeRepeat(sb, re.Sub[0], 0, patternMaxRepeats)
	case syntax.OpPlus:
		return writeRepeat(sb, re.Sub[0], 1, patternMaxRepeats)
	case syntax.OpQuest:
		return writeRepeat(sb, re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		max := re.Max
		if max < 0 || max > re.Min+patternMaxRepeats {
			max = re.Min + patternMaxRepeats
		}
		return writeRepeat(sb, re.Sub[0], re.Min, max)
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		// zero-width
	default:
		return errors.New("generator: unsupported pattern construct")
	}
	return nil
}

func writeRepeat(sb *strings.Builder, sub *syntax.Regexp, min, max int) error {
	n := min
	if max > min {
		n = min + rand.IntN(max-min+1)
	}
	for i := 0; i < n; i++ {
		if err := writeMatch(sb, sub); err != nil {
			return err
		}
	}
	return nil
}

var printableRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// pickFromClass picks a rune uniformly-ish from a [lo, hi, lo, hi, ...] rune
// range list, preferring printable ASCII ranges when present.
func pickFromClass(ranges []rune) (rune, bool) {
	type span struct{ lo, hi rune }
	var printable, all []span
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo > hi {
			continue
		}
		all = append(all, span{lo, hi})
		plo, phi := lo, hi
		if plo < ' ' {
			plo = ' '
		}
		if phi > '~' {
			phi = '~'
		}
		if plo <= phi {
			printable = append(printable, span{plo, phi})
		}
	}
	pool := printable
	if len(pool) == 0 {
		pool = all
	}
	if len(pool) == 0 {
		return 0, false
	}
	s := pool[rand.IntN(len(pool))]
	return s.lo + rune(rand.IntN(int(s.hi-s.lo)+1)), true
}
