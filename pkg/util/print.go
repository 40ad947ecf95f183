package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/TylerBrock/colorjson"
)

func Recast(from, to interface{}) error {
	switch v := from.(type) {
	case []byte:
		return json.Unmarshal(v, to)
	default:
		buf, err := json.Marshal(from)
		if err != nil {
			return err
		}

		return json.Unmarshal(buf, to)
	}
}

// FprintJSON writes obj as indented, colorized JSON. Slices are printed as
// arrays, anything else as an object.
func FprintJSON(w io.Writer, obj interface{}) error {
	var data interface{}
	if err := Recast(obj, &data); err != nil {
		return err
	}

	f := colorjson.NewFormatter()
	f.Indent = 4
	s, err := f.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(s))
	return err
}

func PrintJSON(obj interface{}) {
	_ = FprintJSON(os.Stdout, obj)
}
