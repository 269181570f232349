// Package report renders the selector's result for the process boundary.
package report

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/selector"
)

// json is a drop-in replacement for encoding/json with better performance.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RenderText writes the two extracted values in the classic plain layout.
func RenderText(w io.Writer, r *selector.Report) error {
	_, err := fmt.Fprintf(w, "Battery Cycle Count: %s\nLast Charging Date: %s\n",
		r.CycleCount, r.TimeStamp)
	return errors.Wrap(err, "failed to write report")
}

// RenderJSON writes the report as a single JSON object.
func RenderJSON(w io.Writer, r *selector.Report) error {
	enc := json.NewEncoder(w)
	return errors.Wrap(enc.Encode(r), "failed to encode report")
}
