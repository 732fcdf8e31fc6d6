package core

// Color is the palette role of a screen cell. Games pick roles; hosts decide
// what each role looks like.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRoad
	ColorFlower
	ColorPlayer
	ColorWolf
	ColorTree
	ColorRock
	ColorWater
	ColorFrame
	ColorTitle
)
