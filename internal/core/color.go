package core

// Color is a foreground color for a screen cell.
type Color uint8

// Colors used by scene wireframes and the HUD.
const (
	ColorDefault Color = iota
	ColorGray
	ColorCyan
	ColorOrange
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
)

// ansiCodes maps colors to ANSI 256-color codes.
var ansiCodes = [...]string{
	ColorGray:         "245",
	ColorCyan:         "6",
	ColorOrange:       "208",
	ColorBrightRed:    "9",
	ColorBrightGreen:  "10",
	ColorBrightYellow: "11",
	ColorBrightWhite:  "15",
}

// ANSI returns the 256-color code for the color, or "" for the terminal
// default.
func (c Color) ANSI() string {
	if int(c) >= len(ansiCodes) {
		return ""
	}
	return ansiCodes[c]
}
