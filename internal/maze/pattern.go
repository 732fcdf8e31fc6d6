package maze

import "strings"

const (
	roadMark  = '*'
	blankMark = ' '
)

// passThrough lists ASCII symbols copied to the grid verbatim instead of
// being derived from their neighbourhood.
var passThrough = map[rune]string{
	' ': "0",
	'0': "0",
	'A': "A",
	'B': "B",
	'C': "C",
}

// neighbourPatterns maps a 3×3 block, read row by row, to the road token it
// produces. Only the centre and its four orthogonal neighbours are ever set.
var neighbourPatterns = map[string]string{
	"   ***   ": "1",
	"   **    ": "1",
	"    **   ": "1",
	" *  *  * ": "2",
	"    *  * ": "2",
	" *  *    ": "2",
	"    ** * ": "3",
	"   **  * ": "4",
	" * **    ": "5",
	" *  **   ": "6",
	"   *** * ": "7",
	" * **  * ": "8",
	" * ***   ": "9",
	" *  ** * ": "10",
	" * *** * ": "11",
	"    *    ": "x",
}

// isRoadMark reports whether an ASCII symbol marks a road cell.
func isRoadMark(r rune) bool {
	_, fixed := passThrough[r]
	return !fixed
}

// DeriveTokens turns ASCII-art rows into map tokens. Road symbols take the
// token of the road segment their neighbourhood describes, so maps can be
// drawn with a single character and still get corners and junctions.
// Rows shorter than the widest one are padded with blanks.
func DeriveTokens(lines []string) [][]string {
	w := 0
	cells := make([][]rune, len(lines))
	for y, line := range lines {
		cells[y] = []rune(line)
		if len(cells[y]) > w {
			w = len(cells[y])
		}
	}

	at := func(x, y int) rune {
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			return blankMark
		}
		return cells[y][x]
	}
	mark := func(x, y int) byte {
		if isRoadMark(at(x, y)) {
			return roadMark
		}
		return blankMark
	}

	out := make([][]string, len(lines))
	for y := range cells {
		out[y] = make([]string, w)
		for x := 0; x < w; x++ {
			c := at(x, y)
			if tok, ok := passThrough[c]; ok {
				out[y][x] = tok
				continue
			}
			block := []byte{
				blankMark, mark(x, y-1), blankMark,
				mark(x-1, y), roadMark, mark(x+1, y),
				blankMark, mark(x, y+1), blankMark,
			}
			out[y][x] = BlockToken(string(block))
		}
	}
	return out
}

// BlockToken returns the token for a 9-character neighbourhood block.
// Unknown blocks degrade to the Empty token.
func BlockToken(block string) string {
	if tok, ok := neighbourPatterns[block]; ok {
		return tok
	}
	return Empty.Token()
}

// splitLines splits map text into rows, dropping carriage returns and
// trailing empty lines.
func splitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
