// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := fmt.Errorf("wrapped: %w", errSentinel)
	assert.Equal(t, err, Log(err))
	assert.True(t, Is(Log(err), errSentinel))
	assert.True(t, Is(Join(nil, err), errSentinel))
	assert.Contains(t, callerOf(), "TestLog")
}

// callerOf returns the CallerInfo of its caller.
func callerOf() string { return CallerInfo() }
