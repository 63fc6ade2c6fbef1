package module

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/defuse/internal/game/random"
)

// WireSituations returns the number of generation situations defined for a
// wire count. The highest situation is always the count's "otherwise" rule.
func WireSituations(count int) int {
	if count == 4 {
		return 5
	}
	return 4
}

func countColor(ws []Color, c Color) int {
	n := 0
	for _, w := range ws {
		if w == c {
			n++
		}
	}
	return n
}

func lastIndex(ws []Color, c Color) int {
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i] == c {
			return i
		}
	}
	return -1
}

// correctWire applies the manual's cut table for the wire count.
func correctWire(ws []Color, ctx Context) int {
	n := len(ws)
	last := ws[n-1]
	odd := ctx.SerialOdd()

	switch n {
	case 3:
		switch {
		case countColor(ws, Red) == 0:
			return 1
		case last == White:
			return n - 1
		case countColor(ws, Blue) > 1:
			return lastIndex(ws, Blue)
		default:
			return n - 1
		}
	case 4:
		switch {
		case countColor(ws, Red) > 1 && odd:
			return lastIndex(ws, Red)
		case last == Yellow && countColor(ws, Red) == 0:
			return 0
		case countColor(ws, Blue) == 1:
			return 0
		case countColor(ws, Yellow) > 1:
			return n - 1
		default:
			return 1
		}
	case 5:
		switch {
		case last == Black && odd:
			return 3
		case countColor(ws, Red) == 1 && countColor(ws, Yellow) > 1:
			return 0
		case countColor(ws, Black) == 0:
			return 1
		default:
			return 0
		}
	default:
		switch {
		case countColor(ws, Yellow) == 0 && odd:
			return 2
		case countColor(ws, Yellow) == 1 && countColor(ws, White) > 1:
			return 3
		case countColor(ws, Red) == 0:
			return n - 1
		default:
			return 3
		}
	}
}

// fill draws n colors from palette with replacement.
func fill(src random.Source, n int, palette []Color) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = palette[src.Intn(len(palette))]
	}
	return out
}

func repeat(c Color, n int) []Color {
	out := make([]Color, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// moveOffLast swaps the last wire with a random earlier wire whose color is
// not c. It is a no-op when the last wire is not c.
func moveOffLast(src random.Source, ws []Color, c Color) error {
	n := len(ws)
	if ws[n-1] != c {
		return nil
	}
	var candidates []int
	for i := 0; i < n-1; i++ {
		if ws[i] != c {
			candidates = append(candidates, i)
		}
	}
	i, err := random.Pick(src, candidates)
	if err != nil {
		return fmt.Errorf("no %s-free wire to move last: %w", c, err)
	}
	ws[i], ws[n-1] = ws[n-1], ws[i]
	return nil
}

func generateWires(count, situation int, ctx Context, src random.Source) ([]Color, error) {
	switch count {
	case 3:
		return threeWires(situation, src)
	case 4:
		return fourWires(situation, ctx, src)
	case 5:
		return fiveWires(situation, ctx, src)
	default:
		return sixWires(situation, ctx, src)
	}
}

func threeWires(situation int, src random.Source) ([]Color, error) {
	switch situation {
	case 1:
		// No red wires.
		return random.Sample(src, random.Without(WirePalette, Red), 3)
	case 2:
		// Red present, last wire white.
		ws := fill(src, 3, WirePalette)
		ws[random.Int(src, 0, 1)] = Red
		ws[2] = White
		return ws, nil
	case 3:
		// All blue except one lone red.
		ws := repeat(Blue, 3)
		ws[random.Int(src, 0, 2)] = Red
		return ws, nil
	default:
		// Exactly one red, at most one blue, last never white.
		redIdx := random.Int(src, 0, 2)
		blueIdx := random.Int(src, 0, 2)
		ws := make([]Color, 3)
		for i := range ws {
			if i == redIdx {
				ws[i] = Red
				continue
			}
			palette := random.Without(WirePalette, Red)
			if i != blueIdx {
				palette = random.Without(palette, Blue)
			}
			if i == 2 {
				palette = random.Without(palette, White)
			}
			c, err := random.Pick(src, palette)
			if err != nil {
				return nil, err
			}
			ws[i] = c
		}
		return ws, nil
	}
}

func fourWires(situation int, ctx Context, src random.Source) ([]Color, error) {
	switch situation {
	case 1:
		// Exactly one red wire.
		ws := fill(src, 4, random.Without(WirePalette, Red))
		ws[random.Int(src, 0, 3)] = Red
		return ws, nil
	case 2:
		// No red, last wire yellow.
		ws, err := random.Sample(src, random.Without(WirePalette, Red), 3)
		if err != nil {
			return nil, err
		}
		return append(ws, Yellow), nil
	case 3:
		// Exactly one blue wire.
		ws, err := random.Sample(src, random.Without(WirePalette, Blue), 4)
		if err != nil {
			return nil, err
		}
		ws[random.Int(src, 0, 3)] = Blue
		return ws, nil
	case 4:
		// More than one yellow wire.
		numYellow := random.Int(src, 2, 3)
		others, err := random.Sample(src, []Color{Red, White, Black}, 4-numYellow)
		if err != nil {
			return nil, err
		}
		ws := random.Shuffle(src, append(others, repeat(Yellow, numYellow)...))
		if countColor(ws, Red) == 0 {
			if err := moveOffLast(src, ws, Yellow); err != nil {
				return nil, err
			}
		}
		return ws, nil
	default:
		// None of the above: cut the second wire.
		var numRed int
		if ctx.SerialOdd() {
			numRed = random.Int(src, 0, 1)
		} else {
			numRed = random.Int(src, 0, 4)
		}
		numYellow := random.Int(src, 0, 1)
		if numRed == 4 {
			numYellow = 0
		}
		rest := 4 - numRed - numYellow
		numBlue, err := random.Pick(src, random.Without(random.Range(0, rest+1), 1))
		if err != nil {
			return nil, err
		}
		ws := repeat(Red, numRed)
		ws = append(ws, repeat(Yellow, numYellow)...)
		ws = append(ws, repeat(Blue, numBlue)...)
		ws = append(ws, fill(src, rest-numBlue, []Color{White, Black})...)
		ws = random.Shuffle(src, ws)
		if numRed == 0 {
			if err := moveOffLast(src, ws, Yellow); err != nil {
				return nil, err
			}
		}
		return ws, nil
	}
}

func fiveWires(situation int, ctx Context, src random.Source) ([]Color, error) {
	odd := ctx.SerialOdd()
	switch {
	case situation == 1 && odd:
		// Last wire black.
		return append(fill(src, 4, WirePalette), Black), nil
	case situation == 2:
		// One red and more than one yellow.
		ws := fill(src, 5, []Color{White, Blue, Black})
		numYellow := random.Int(src, 2, 4)
		idx := random.Shuffle(src, random.Range(0, 5))
		for i := 0; i < numYellow; i++ {
			ws[idx[i]] = Yellow
		}
		ws[idx[numYellow]] = Red
		if odd && ws[4] == Black {
			ws[4] = White
		}
		return ws, nil
	case situation == 3:
		// No black wires.
		ws := fill(src, 5, random.Without(WirePalette, Black))
		if countColor(ws, Red) == 1 && countColor(ws, Yellow) > 1 {
			ws[slices.Index(ws, Red)] = White
		}
		return ws, nil
	default:
		// Black present and neither earlier rule applies: cut the first wire.
		maxBlack := 5
		if odd {
			maxBlack = 4
		}
		numBlack := random.Int(src, 1, maxBlack)
		rest := 5 - numBlack
		numRed := random.Int(src, 0, rest)
		rest -= numRed
		numYellow := random.Int(src, 0, rest)
		if numRed == 1 && numYellow > 1 {
			numYellow = random.Int(src, 0, 1)
		}
		rest -= numYellow
		ws := repeat(Black, numBlack)
		ws = append(ws, repeat(Red, numRed)...)
		ws = append(ws, repeat(Yellow, numYellow)...)
		ws = append(ws, fill(src, rest, []Color{White, Blue})...)
		ws = random.Shuffle(src, ws)
		if odd {
			if err := moveOffLast(src, ws, Black); err != nil {
				return nil, err
			}
		}
		return ws, nil
	}
}

func sixWires(situation int, ctx Context, src random.Source) ([]Color, error) {
	odd := ctx.SerialOdd()
	switch {
	case situation == 1 && odd:
		// No yellow wires.
		return fill(src, 6, random.Without(WirePalette, Yellow)), nil
	case situation == 2:
		// One yellow and more than one white.
		ws := fill(src, 6, []Color{Red, Blue, Black})
		yellowIdx := random.Int(src, 0, 5)
		ws[yellowIdx] = Yellow
		numWhite := random.Int(src, 2, 5)
		valid := random.Shuffle(src, random.Without(random.Range(0, 6), yellowIdx))
		for i := 0; i < numWhite; i++ {
			ws[valid[i]] = White
		}
		return ws, nil
	case situation == 3:
		// No red wires. Two yellows keep the earlier rules out of play.
		ws := fill(src, 6, random.Without(WirePalette, Red))
		idx := random.Shuffle(src, random.Range(0, 6))
		ws[idx[0]] = Yellow
		ws[idx[1]] = Yellow
		return ws, nil
	default:
		// Red present and neither earlier rule applies: cut the fourth wire.
		minYellow := 0
		if odd {
			minYellow = 1
		}
		numRed := random.Int(src, 1, 6-minYellow)
		rest := 6 - numRed
		numYellow := random.Int(src, minYellow, rest)
		rest -= numYellow
		numWhite := random.Int(src, 0, rest)
		if numYellow == 1 && numWhite > 1 {
			numWhite = random.Int(src, 0, 1)
		}
		rest -= numWhite
		ws := repeat(Red, numRed)
		ws = append(ws, repeat(Yellow, numYellow)...)
		ws = append(ws, repeat(White, numWhite)...)
		ws = append(ws, fill(src, rest, []Color{Blue, Black})...)
		return random.Shuffle(src, ws), nil
	}
}
