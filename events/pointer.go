// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"fmt"
	"image"
)

// Buttons is a pointer button.
type Buttons int32

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)

// Pointer is a pointer event of type PointerDown, PointerMove,
// PointerUp or PointerLeave, in surface pixel coordinates.
type Pointer struct {
	Type   Types
	Button Buttons
	Where  image.Point
}

// NewPointer returns a new Pointer event.
func NewPointer(typ Types, but Buttons, where image.Point) Pointer {
	return Pointer{Type: typ, Button: but, Where: where}
}

func (ev Pointer) String() string {
	return fmt.Sprintf("%v{Button: %d, Pos: %v}", ev.Type, ev.Button, ev.Where)
}

// MouseScroll is a Wheel event. Delta follows the DOM convention:
// a negative Delta scrolls up / away from the user.
type MouseScroll struct {
	Where image.Point
	Delta float32
}

func (ev MouseScroll) String() string {
	return fmt.Sprintf("%v{Delta: %g, Pos: %v}", Wheel, ev.Delta, ev.Where)
}
