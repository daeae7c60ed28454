package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrChannelFull    = errors.New(f("channel full"))
)
