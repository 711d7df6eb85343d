// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the pointer and wheel input events that drive
// the camera, and a lock-free FIFO [Queue] used to hand messages from
// any goroutine to the render loop.
package events

import "fmt"

// Types determines the type of input event.
// The standard [JavaScript Pointer Events](https://developer.mozilla.org/en-US/docs/Web/API/Pointer_events)
// provide the basis for the event type names.
type Types int32

const (
	// zero value is an unknown type
	UnknownType Types = iota

	// PointerDown happens when a pointer button is pressed down.
	PointerDown

	// PointerMove is sent whenever the pointer moves over the surface,
	// with or without a button down.
	PointerMove

	// PointerUp happens when a pointer button is released.
	PointerUp

	// PointerLeave happens when the pointer leaves the surface.
	PointerLeave

	// Wheel is a scroll wheel event, with a signed Delta.
	Wheel
)

var typeNames = map[Types]string{
	UnknownType:  "UnknownType",
	PointerDown:  "PointerDown",
	PointerMove:  "PointerMove",
	PointerUp:    "PointerUp",
	PointerLeave: "PointerLeave",
	Wheel:        "Wheel",
}

func (tp Types) String() string {
	if nm, ok := typeNames[tp]; ok {
		return nm
	}
	return fmt.Sprintf("Types(%d)", int32(tp))
}
