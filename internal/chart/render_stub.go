//go:build nochart

package chart

import (
	"io"

	"github.com/verte-zerg/chargelog/internal/model"
)

// Available reports whether PNG rendering is compiled in.
func Available() bool { return false }

// Render always fails in builds without the image backend.
func Render(io.Writer, *model.Log, Options) error { return ErrUnavailable }
