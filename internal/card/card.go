// internal/card/card.go
package card

import (
	"encoding/json"
	"fmt"
)

// Color identifies one of the four playable colors. Wire values are fixed
// by the client protocol.
type Color int

const (
	Red Color = iota
	Yellow
	Green
	Blue

	// ColorNone marks colorless wildcards (PickColor, TakeFour).
	ColorNone Color = -1
)

// Face identifies a card face. Numeral faces are their own value (0-9).
// Wire values are fixed by the client protocol.
type Face int

const (
	Block     Face = 10
	Rotate    Face = 11
	TakeTwo   Face = 12
	PickColor Face = 20
	TakeFour  Face = 21
)

var faceNames = map[Face]string{
	Block:     "Block",
	Rotate:    "Rotate",
	TakeTwo:   "Take Two",
	PickColor: "Pick Color",
	TakeFour:  "Take Four",
}

var colorNames = map[Color]string{
	Red:    "red",
	Yellow: "yellow",
	Green:  "green",
	Blue:   "blue",
}

// Card is an immutable card value. Equality is structural (face + color).
type Card struct {
	Face  Face
	Color Color
}

// Wildcard reports whether the card is playable regardless of the top of
// the discard stack.
func (c Card) Wildcard() bool {
	return c.Face == PickColor || c.Face == TakeFour
}

// MarshalJSON emits {face, color}, omitting color for colorless wildcards.
func (c Card) MarshalJSON() ([]byte, error) {
	if c.Color == ColorNone {
		return json.Marshal(struct {
			Face Face `json:"face"`
		}{c.Face})
	}
	return json.Marshal(struct {
		Face  Face  `json:"face"`
		Color Color `json:"color"`
	}{c.Face, c.Color})
}

func (c Card) String() string {
	face := faceNames[c.Face]
	if face == "" {
		face = fmt.Sprintf("%d", c.Face)
	}
	if c.Color == ColorNone {
		return face
	}
	return fmt.Sprintf("%s %s", colorNames[c.Color], face)
}

// ValidColor reports whether col names one of the four playable colors.
func ValidColor(col Color) bool {
	return col >= Red && col <= Blue
}

// CanPlayOver reports whether candidate may be played on top of top.
// Wildcards are always playable, anything is playable on a wildcard,
// otherwise the colors or the faces must match.
func CanPlayOver(top, candidate Card) bool {
	if candidate.Wildcard() {
		return true
	}
	if top.Wildcard() {
		return true
	}
	if top.Color != ColorNone && top.Color == candidate.Color {
		return true
	}
	return top.Face == candidate.Face
}

// HasLegalMove reports whether any card in hand may be played on top.
func HasLegalMove(hand []Card, top Card) bool {
	for _, c := range hand {
		if CanPlayOver(top, c) {
			return true
		}
	}
	return false
}

// Catalog enumerates every playable card: each color crossed with faces
// 0 through TakeTwo, plus one colorless PickColor and one colorless TakeFour.
var Catalog []Card

// Regular is the subset of Catalog with numeral faces only. The opening
// discard card is always drawn from this set.
var Regular []Card

func init() {
	for col := Red; col <= Blue; col++ {
		for face := Face(0); face <= TakeTwo; face++ {
			c := Card{Face: face, Color: col}
			Catalog = append(Catalog, c)
			if face <= 9 {
				Regular = append(Regular, c)
			}
		}
	}
	Catalog = append(Catalog,
		Card{Face: PickColor, Color: ColorNone},
		Card{Face: TakeFour, Color: ColorNone},
	)
}

// Find looks up a card in the catalog by face and color. Used by the
// administrative grant path, which bypasses the draw pile entirely.
func Find(face Face, col Color) (Card, bool) {
	for _, c := range Catalog {
		if c.Face == face && c.Color == col {
			return c, true
		}
	}
	return Card{}, false
}
